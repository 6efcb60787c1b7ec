// Package storage declares the persistence contract shared by the
// service layer, the access guards and the storage implementations.
package storage

import (
	"context"

	"github.com/ndsmnv/tinylink/internal/models"
	"github.com/ndsmnv/tinylink/internal/user"
)

// UserDirectory stores registered users.
type UserDirectory interface {
	// CreateUser registers a user, assigning a fresh ID.
	// It returns models.ErrDuplicateEmail when the email is already taken.
	CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error)

	FindUserByID(ctx context.Context, userID string) (*user.User, bool, error)

	// FindUserByEmail performs an exact, case-sensitive match.
	FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error)
}

// URLKeeper stores shortened URL entries.
type URLKeeper interface {
	InsertURL(ctx context.Context, entry models.URLEntry) error

	FindURLByID(ctx context.Context, short string) (models.URLEntry, bool, error)

	// DeleteURL is idempotent: deleting an absent short code is a no-op.
	DeleteURL(ctx context.Context, short string) error

	FindURLsByOwner(ctx context.Context, ownerID string) (models.URLEntries, error)

	// AllURLs returns the whole store. Used by the /urls.json debug dump.
	AllURLs(ctx context.Context) (models.URLEntries, error)

	IsShortExists(ctx context.Context, short string) (bool, error)
}

// Storage combines every persistence concern of the service.
type Storage interface {
	UserDirectory
	URLKeeper

	Ping(ctx context.Context) error
	Close() error
}
