package ports

// PasswordHasher abstracts one-way password hashing so the rest of the core
// never touches a plaintext password after registration or login.
type PasswordHasher interface {
	// Hash produces a salted hash; hashing the same input twice yields
	// different outputs that both verify.
	Hash(password string) (string, error)

	// Check reports whether plaintext matches the stored hash. A malformed
	// hash is a mismatch, never an error.
	Check(password, hash string) bool
}
