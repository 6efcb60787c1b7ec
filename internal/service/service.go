// Package service implements the application core: user registration and
// authentication, URL shortening, lookup and deletion. Handlers stay thin
// and delegate here; all storage access goes through the injected Storage.
package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ndsmnv/tinylink/internal/db/storage"
	"github.com/ndsmnv/tinylink/internal/keygen"
	"github.com/ndsmnv/tinylink/internal/models"
	"github.com/ndsmnv/tinylink/internal/user"
)

// triesToGenerateUniqueKey bounds the short key collision-retry loop.
const triesToGenerateUniqueKey = 10

// ErrKeyGenExhausted is returned when no collision-free short key could be
// generated within the attempt budget.
var ErrKeyGenExhausted = errors.New("the number of attempts to generate a unique key has been exceeded")

// Service orchestrates storage, key generation and password hashing.
type Service struct {
	db           storage.Storage
	keys         *keygen.Generator
	shortURLBase string
	bcryptCost   int
}

// New creates a Service on top of the given storage.
func New(
	db storage.Storage,
	keys *keygen.Generator,
	shortURLBase string,
	bcryptCost int,
) *Service {
	return &Service{
		db:           db,
		keys:         keys,
		shortURLBase: shortURLBase,
		bcryptCost:   bcryptCost,
	}
}

// RegisterUser creates a user with a bcrypt-hashed password.
// It returns models.ErrValidation on empty email or password and
// models.ErrDuplicateEmail when the email is already registered.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*user.User, error) {
	if email == "" || password == "" {
		return nil, models.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	return s.db.CreateUser(ctx, email, string(hash))
}

// AuthenticateUser verifies the email/password pair.
// Unknown emails and wrong passwords are indistinguishable to the caller:
// both yield models.ErrInvalidCredentials.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*user.User, error) {
	usr, found, err := s.db.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return usr, nil
}

// ShortenURL creates a URL entry owned by the given user.
// The destination is stored as submitted; only presence is validated.
func (s *Service) ShortenURL(ctx context.Context, destination, ownerID string) (models.URLEntry, error) {
	if destination == "" {
		return models.URLEntry{}, models.ErrValidation
	}

	short, err := s.generateShortKey(ctx)
	if err != nil {
		return models.URLEntry{}, err
	}

	entry := models.URLEntry{
		ID:      short,
		LongURL: destination,
		OwnerID: ownerID,
	}
	if err := s.db.InsertURL(ctx, entry); err != nil {
		return models.URLEntry{}, err
	}

	return entry, nil
}

// GetURL returns the entry for a short code or models.ErrNotFound.
func (s *Service) GetURL(ctx context.Context, short string) (models.URLEntry, error) {
	entry, found, err := s.db.FindURLByID(ctx, short)
	if err != nil {
		return models.URLEntry{}, err
	}
	if !found {
		return models.URLEntry{}, models.ErrNotFound
	}

	return entry, nil
}

// DeleteURL removes the entry. Deleting an unknown short code is a no-op.
func (s *Service) DeleteURL(ctx context.Context, short string) error {
	return s.db.DeleteURL(ctx, short)
}

// UserURLs returns the entries owned by the given user, keyed by short code.
func (s *Service) UserURLs(ctx context.Context, ownerID string) (models.URLEntries, error) {
	return s.db.FindURLsByOwner(ctx, ownerID)
}

// AllURLs returns the whole store for the /urls.json debug dump.
func (s *Service) AllURLs(ctx context.Context) (models.URLEntries, error) {
	return s.db.AllURLs(ctx)
}

// ShortURL renders the public redirect address for a short key.
func (s *Service) ShortURL(shortKey string) string {
	return s.shortURLBase + "/u/" + shortKey
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// generateShortKey draws random keys until a free one is found.
// The generator itself guarantees nothing about uniqueness, so collisions
// are detected here instead of silently overwriting an existing entry.
func (s *Service) generateShortKey(ctx context.Context) (string, error) {
	for i := 0; i < triesToGenerateUniqueKey; i++ {
		short := s.keys.NewKey()
		exists, err := s.db.IsShortExists(ctx, short)
		if err != nil {
			return "", err
		}
		if !exists {
			return short, nil
		}
	}

	return "", ErrKeyGenExhausted
}
