// Package mockstorage provides a testify-based mock implementation
// of the Storage interface. It is used for unit testing the service
// and the HTTP handlers by simulating storage behavior.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ndsmnv/tinylink/internal/models"
	"github.com/ndsmnv/tinylink/internal/user"
)

// StorageMock is a testify mock implementing storage.Storage.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks registering a user.
func (m *StorageMock) CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error) {
	args := m.Called(ctx, email, passwordHash)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// FindUserByID mocks the direct user lookup.
func (m *StorageMock) FindUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// FindUserByEmail mocks the lookup-by-email scan.
func (m *StorageMock) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	args := m.Called(ctx, email)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Bool(1), args.Error(2)
}

// InsertURL mocks storing a URL entry.
func (m *StorageMock) InsertURL(ctx context.Context, entry models.URLEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// FindURLByID mocks the short code lookup.
func (m *StorageMock) FindURLByID(ctx context.Context, short string) (models.URLEntry, bool, error) {
	args := m.Called(ctx, short)
	entry, _ := args.Get(0).(models.URLEntry)
	return entry, args.Bool(1), args.Error(2)
}

// DeleteURL mocks the idempotent delete.
func (m *StorageMock) DeleteURL(ctx context.Context, short string) error {
	args := m.Called(ctx, short)
	return args.Error(0)
}

// FindURLsByOwner mocks the per-owner filter.
func (m *StorageMock) FindURLsByOwner(ctx context.Context, ownerID string) (models.URLEntries, error) {
	args := m.Called(ctx, ownerID)
	entries, _ := args.Get(0).(models.URLEntries)
	return entries, args.Error(1)
}

// AllURLs mocks the full store dump.
func (m *StorageMock) AllURLs(ctx context.Context) (models.URLEntries, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).(models.URLEntries)
	return entries, args.Error(1)
}

// IsShortExists mocks the collision probe.
func (m *StorageMock) IsShortExists(ctx context.Context, short string) (bool, error) {
	args := m.Called(ctx, short)
	return args.Bool(0), args.Error(1)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks resource release.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
