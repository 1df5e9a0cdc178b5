// package server contains middleware & handlers for the trax gateway
package server

import (
	"net/http"
	"time"

	"github.com/desertthunder/trax/internal/models"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the gateway.
// Implementations handle specific endpoint groups (auth, pass-through calls).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Authenticator resolves an opaque bearer token to a user.
//
// The user store's lookup may block on I/O; it either returns the resolved
// identity or a uniform rejection.
type Authenticator interface {
	AuthenticateToken(token string) (*models.User, error)
}

// UserStore is the slice of the user store the auth handlers write through:
// upsert on authorization, best-effort token persistence, token issuance.
type UserStore interface {
	Authenticator
	UpsertBySpotifyID(user *models.User) error
	IssueToken(userID string, ttl time.Duration) (string, error)
	UpdateAccessByRefresh(refreshToken, accessToken string, expiry time.Time) error
}
