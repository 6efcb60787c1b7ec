// Package models declares the data shapes and error taxonomy shared
// between the storage, service and router layers.
package models

import "errors"

// URLEntry is a single shortened URL record.
// The JSON field names mirror the /urls.json debug dump format.
type URLEntry struct {
	// ID is the short code used in the public redirect path.
	ID string `json:"-"`

	// LongURL is the destination the short code redirects to.
	// It is stored as submitted, without well-formedness validation.
	LongURL string `json:"longURL"`

	// OwnerID is the ID of the user who created the entry.
	OwnerID string `json:"userID"`
}

// URLEntries maps short codes to their entries.
type URLEntries map[string]URLEntry

// Sentinel errors. Each one maps to exactly one HTTP response;
// none of them is recoverable mid-request.
var (
	// ErrValidation is returned when a required field is empty or missing.
	ErrValidation = errors.New("missing required field")

	// ErrDuplicateEmail is returned when registering an already taken email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated is returned when a guarded route is hit anonymously
	// or with a session that references no known user.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when an authenticated user touches an entry
	// owned by somebody else.
	ErrForbidden = errors.New("access to the URL is forbidden")

	// ErrNotFound is returned when a short code is unknown.
	ErrNotFound = errors.New("short URL not found")
)
