// Package memorystorage is the in-memory Storage implementation.
// All state is process-wide and lost on restart.
package memorystorage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ndsmnv/tinylink/internal/models"
	"github.com/ndsmnv/tinylink/internal/user"
)

// MemoryStorage keeps users and URL entries in maps guarded by a single
// mutex. Contention is negligible at this scale; the lock only has to make
// every operation atomic with respect to the others.
type MemoryStorage struct {
	mu    sync.RWMutex
	users map[string]*user.User
	urls  models.URLEntries
}

// New returns an empty MemoryStorage. Tests create a fresh instance each
// to stay isolated from one another.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		users: map[string]*user.User{},
		urls:  models.URLEntries{},
	}, nil
}

// CreateUser registers a user under a fresh UUID.
// IDs are never reused while the process lives.
func (s *MemoryStorage) CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, usr := range s.users {
		if usr.Email == email {
			return nil, models.ErrDuplicateEmail
		}
	}

	usr := &user.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	s.users[usr.ID] = usr

	return usr, nil
}

func (s *MemoryStorage) FindUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	usr, found := s.users[userID]

	return usr, found, nil
}

// FindUserByEmail scans the directory linearly. O(n), acceptable here.
func (s *MemoryStorage) FindUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, usr := range s.users {
		if usr.Email == email {
			return usr, true, nil
		}
	}

	return nil, false, nil
}

func (s *MemoryStorage) InsertURL(ctx context.Context, entry models.URLEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.urls[entry.ID] = entry

	return nil
}

func (s *MemoryStorage) FindURLByID(ctx context.Context, short string) (models.URLEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, found := s.urls[short]

	return entry, found, nil
}

func (s *MemoryStorage) DeleteURL(ctx context.Context, short string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.urls, short)

	return nil
}

func (s *MemoryStorage) FindURLsByOwner(ctx context.Context, ownerID string) (models.URLEntries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := models.URLEntries{}
	for short, entry := range s.urls {
		if entry.OwnerID == ownerID {
			result[short] = entry
		}
	}

	return result, nil
}

func (s *MemoryStorage) AllURLs(ctx context.Context) (models.URLEntries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(models.URLEntries, len(s.urls))
	for short, entry := range s.urls {
		result[short] = entry
	}

	return result, nil
}

func (s *MemoryStorage) IsShortExists(ctx context.Context, short string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.urls[short]

	return exists, nil
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
