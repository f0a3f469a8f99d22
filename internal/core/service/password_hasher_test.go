package service

import (
	"encoding/base64"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	h := NewPasswordHasher()

	hash, salt, err := h.HashPassword("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if len(salt) != saltSize {
		t.Fatalf("expected %d-byte salt, got %d", saltSize, len(salt))
	}
	raw, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		t.Fatalf("hash is not valid base64: %v", err)
	}
	if len(raw) != keySize {
		t.Fatalf("expected %d-byte derived key, got %d", keySize, len(raw))
	}

	if !h.VerifyPassword("s3cret-passw0rd", hash, salt) {
		t.Fatal("correct password did not verify")
	}
	if h.VerifyPassword("wrong-password", hash, salt) {
		t.Fatal("wrong password verified")
	}
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	h := NewPasswordHasher()

	hash1, salt1, err := h.HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	hash2, salt2, err := h.HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if string(salt1) == string(salt2) {
		t.Fatal("two hashes of the same password reused a salt")
	}
	if hash1 == hash2 {
		t.Fatal("two hashes of the same password are identical")
	}

	// Each hash still verifies only with its own salt.
	if !h.VerifyPassword("same-password", hash1, salt1) {
		t.Fatal("first hash did not verify with its salt")
	}
	if h.VerifyPassword("same-password", hash1, salt2) {
		t.Fatal("first hash verified with the wrong salt")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	h := NewPasswordHasher()

	if _, _, err := h.HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordMalformedInputs(t *testing.T) {
	h := NewPasswordHasher()

	hash, salt, err := h.HashPassword("valid-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	cases := []struct {
		name     string
		password string
		hash     string
		salt     []byte
	}{
		{"empty password", "", hash, salt},
		{"empty hash", "valid-password", "", salt},
		{"nil salt", "valid-password", hash, nil},
		{"not base64", "valid-password", "%%not-base64%%", salt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if h.VerifyPassword(tc.password, tc.hash, tc.salt) {
				t.Fatal("malformed input verified")
			}
		})
	}
}
