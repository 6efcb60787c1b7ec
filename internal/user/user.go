// Package user defines the user model used for authentication
// and URL ownership checks.
package user

// User represents a registered user.
// Records are immutable after creation and live only in process memory.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string `json:"id"`

	// Email is unique across the user directory. Comparison is exact,
	// case-sensitive.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Raw passwords are never stored.
	PasswordHash string `json:"-"`
}
