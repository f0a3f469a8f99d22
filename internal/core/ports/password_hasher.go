package ports

// PasswordHasher salts and hashes credentials and verifies candidates
// against a stored hash+salt pair.
type PasswordHasher interface {
	// HashPassword returns the base64-encoded derived key and the raw salt.
	HashPassword(password string) (hash string, salt []byte, err error)
	// VerifyPassword reports whether the password matches. A wrong password
	// is false, never an error.
	VerifyPassword(password, storedHash string, storedSalt []byte) bool
}
