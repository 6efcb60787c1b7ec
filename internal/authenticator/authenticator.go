// Package authenticator declares the session management contract
// consumed by the router.
package authenticator

import "net/http"

// Authenticator resolves and mutates the per-request session identity.
type Authenticator interface {
	ResolveUser(h http.Handler) http.Handler
	IssueSession(response http.ResponseWriter, userID string) error
	ClearSession(response http.ResponseWriter)
}
