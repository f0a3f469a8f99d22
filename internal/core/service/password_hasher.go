package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"

	"github.com/tenantkit/identity-service/internal/core/domain"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 10000
)

// PasswordHasher implements PBKDF2-HMAC-SHA256 credential hashing with a
// random per-password salt. Verification compares in constant time.
type PasswordHasher struct{}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// HashPassword derives a key from the password with a fresh random salt and
// returns it base64-encoded along with the raw salt bytes.
func (h *PasswordHasher) HashPassword(password string) (string, []byte, error) {
	if password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", nil, err
	}

	return derive(password, salt), salt, nil
}

// VerifyPassword re-derives the key with the stored salt and compares it to
// the stored hash. A mismatch, an empty password, or a malformed stored pair
// all report false; verification never errors.
func (h *PasswordHasher) VerifyPassword(password, storedHash string, storedSalt []byte) bool {
	if password == "" || storedHash == "" || len(storedSalt) == 0 {
		return false
	}

	stored, err := base64.StdEncoding.DecodeString(storedHash)
	if err != nil {
		return false
	}

	computed, err := base64.StdEncoding.DecodeString(derive(password, storedSalt))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(computed, stored) == 1
}

func derive(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}
