// Package auth manages the session cookie: a signed JWT carrying the
// authenticated user's ID. It resolves the calling identity once per
// request and threads it through the request context.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims represents the JWT claims stored in the session cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key under which the resolved user ID is stored.
// An empty value means the request is anonymous.
const UserIDKey ContextKey = "userID"

// Auth issues, clears and resolves session cookies.
// It deliberately does not check that a resolved user ID still references
// a live user; that is the access guards' job, because a stale cookie can
// outlive the in-memory user directory.
type Auth struct {
	cookieName string
	signingKey []byte
	sessionTTL time.Duration
}

// New creates an Auth with the given cookie name, HMAC signing key and
// session lifetime.
func New(cookieName string, signingKey []byte, sessionTTL time.Duration) *Auth {
	return &Auth{
		cookieName: cookieName,
		signingKey: signingKey,
		sessionTTL: sessionTTL,
	}
}

// ResolveUser is an HTTP middleware that extracts the user ID from the
// session cookie (or the Authorization header) and stores it in the request
// context. Requests without a valid token proceed as anonymous.
func (a *Auth) ResolveUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := a.resolveUserID(request)

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// IssueSession sets a session cookie identifying the given user.
func (a *Auth) IssueSession(response http.ResponseWriter, userID string) error {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.sessionTTL)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.signingKey)
	if err != nil {
		return err
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.cookieName,
			Value:    tokenString,
			Path:     "/",
			HttpOnly: true,
		},
	)

	return nil
}

// ClearSession expires the session cookie.
func (a *Auth) ClearSession(response http.ResponseWriter) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		},
	)
}

// UserIDFromContext returns the user ID resolved by ResolveUser,
// or an empty string for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)

	return userID
}

func (a *Auth) resolveUserID(request *http.Request) string {
	tokenString := request.Header.Get("Authorization")
	if tokenString == "" {
		cookie, err := request.Cookie(a.cookieName)
		if err != nil {
			return ""
		}
		tokenString = cookie.Value
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.signingKey, nil
		},
	)
	if err != nil || !token.Valid {
		return ""
	}

	return claims.UserID
}
