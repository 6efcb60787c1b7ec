package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndsmnv/tinylink/internal/db/memorystorage"
	"github.com/ndsmnv/tinylink/internal/keygen"
	"github.com/ndsmnv/tinylink/internal/mockstorage"
	"github.com/ndsmnv/tinylink/internal/models"
)

const testShortURLBase = "http://localhost:8080"

func newTestService(t *testing.T) (*Service, *memorystorage.MemoryStorage) {
	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	return New(theStorage, keygen.New(keygen.DefaultKeyLength), testShortURLBase, bcrypt.MinCost), theStorage
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)

	usr, err := svc.RegisterUser(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.NotEqual(t, "pw1", usr.PasswordHash, "the raw password must never be stored")

	t.Run("login succeeds with the right password", func(t *testing.T) {
		authenticated, err := svc.AuthenticateUser(context.Background(), "a@x.com", "pw1")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, authenticated.ID)
	})

	t.Run("login fails with the wrong password", func(t *testing.T) {
		_, err := svc.AuthenticateUser(context.Background(), "a@x.com", "pw2")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("login fails for an unknown email", func(t *testing.T) {
		_, err := svc.AuthenticateUser(context.Background(), "b@x.com", "pw1")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("second registration with the same email fails", func(t *testing.T) {
		_, err := svc.RegisterUser(context.Background(), "a@x.com", "pw2")
		assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	})

	t.Run("empty fields are rejected", func(t *testing.T) {
		_, err := svc.RegisterUser(context.Background(), "", "pw")
		assert.ErrorIs(t, err, models.ErrValidation)

		_, err = svc.RegisterUser(context.Background(), "c@x.com", "")
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestShortenAndResolve(t *testing.T) {
	svc, _ := newTestService(t)

	usr, err := svc.RegisterUser(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)

	entry, err := svc.ShortenURL(context.Background(), "http://example.com", usr.ID)
	require.NoError(t, err)
	assert.Len(t, entry.ID, keygen.DefaultKeyLength)
	assert.Equal(t, usr.ID, entry.OwnerID)

	t.Run("round trip returns the original destination", func(t *testing.T) {
		resolved, err := svc.GetURL(context.Background(), entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com", resolved.LongURL)
	})

	t.Run("short URL is rendered under the public redirect path", func(t *testing.T) {
		assert.Equal(t, testShortURLBase+"/u/"+entry.ID, svc.ShortURL(entry.ID))
	})

	t.Run("empty destination is rejected", func(t *testing.T) {
		_, err := svc.ShortenURL(context.Background(), "", usr.ID)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("malformed destinations are stored as submitted", func(t *testing.T) {
		entry, err := svc.ShortenURL(context.Background(), "not a url at all", usr.ID)
		require.NoError(t, err)

		resolved, err := svc.GetURL(context.Background(), entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "not a url at all", resolved.LongURL)
	})

	t.Run("unknown short code yields ErrNotFound", func(t *testing.T) {
		_, err := svc.GetURL(context.Background(), "nope42")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDeleteURL(t *testing.T) {
	svc, _ := newTestService(t)

	usr, err := svc.RegisterUser(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)

	entry, err := svc.ShortenURL(context.Background(), "http://example.com", usr.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteURL(context.Background(), entry.ID))

	_, err = svc.GetURL(context.Background(), entry.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.NoError(t, svc.DeleteURL(context.Background(), entry.ID), "delete should be idempotent")
}

func TestUserURLsOwnership(t *testing.T) {
	svc, _ := newTestService(t)

	userA, err := svc.RegisterUser(context.Background(), "a@x.com", "pw1")
	require.NoError(t, err)
	userB, err := svc.RegisterUser(context.Background(), "b@x.com", "pw2")
	require.NoError(t, err)

	entryA, err := svc.ShortenURL(context.Background(), "http://a.example.com", userA.ID)
	require.NoError(t, err)
	entryB, err := svc.ShortenURL(context.Background(), "http://b.example.com", userB.ID)
	require.NoError(t, err)

	urlsOfA, err := svc.UserURLs(context.Background(), userA.ID)
	require.NoError(t, err)
	require.Len(t, urlsOfA, 1)
	assert.Contains(t, urlsOfA, entryA.ID)
	assert.NotContains(t, urlsOfA, entryB.ID)

	all, err := svc.AllURLs(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestShortenURLRetriesOnCollision(t *testing.T) {
	db := new(mockstorage.StorageMock)
	svc := New(db, keygen.New(keygen.DefaultKeyLength), testShortURLBase, bcrypt.MinCost)

	// First probe collides, second one finds a free key.
	db.On("IsShortExists", mock.Anything, mock.Anything).Return(true, nil).Once()
	db.On("IsShortExists", mock.Anything, mock.Anything).Return(false, nil).Once()
	db.On("InsertURL", mock.Anything, mock.Anything).Return(nil)

	entry, err := svc.ShortenURL(context.Background(), "http://example.com", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)

	db.AssertNumberOfCalls(t, "IsShortExists", 2)
	db.AssertNumberOfCalls(t, "InsertURL", 1)
}

func TestShortenURLKeyGenExhaustion(t *testing.T) {
	db := new(mockstorage.StorageMock)
	svc := New(db, keygen.New(keygen.DefaultKeyLength), testShortURLBase, bcrypt.MinCost)

	db.On("IsShortExists", mock.Anything, mock.Anything).Return(true, nil)

	_, err := svc.ShortenURL(context.Background(), "http://example.com", "user-1")
	assert.ErrorIs(t, err, ErrKeyGenExhausted)
	db.AssertNotCalled(t, "InsertURL")
}
