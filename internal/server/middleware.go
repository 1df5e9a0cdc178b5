package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trax/internal/models"
)

type contextKey string

const (
	userContextKey  contextKey = "trax.user"
	tokenContextKey contextKey = "trax.accessToken"
)

// UserFromContext returns the user attached by [BearerAuth].
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// AccessTokenFromContext returns the stored streaming-API access token
// attached by [BearerAuth].
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

// BearerAuth gates a route on an opaque bearer token resolved by the user store.
//
// The token is taken from the last whitespace-separated field of the
// Authorization header, so "Bearer abc", "bearer abc" and a bare "abc" are all
// accepted. Every failure (missing header, malformed value, store rejection)
// produces the identical 401 "Invalid Login" response; the next handler only
// runs with a resolved user and their stored access token on the context.
func BearerAuth(store Authenticator, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := strings.Fields(r.Header.Get("Authorization"))
			if len(fields) == 0 {
				writeError(w, http.StatusUnauthorized, "Invalid Login", nil)
				return
			}
			token := fields[len(fields)-1]

			user, err := store.AuthenticateToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid Login", nil)
				return
			}

			logger.Debug("resolved bearer token", "user", user.ID(), "spotify_id", user.SpotifyID())

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, tokenContextKey, user.AccessToken())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORS allows cross-origin requests from any origin and answers preflights,
// matching the permissive posture of the SPA this gateway fronts.
func CORS() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs each request's method, path, status and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration", time.Since(start),
			)
		})
	}
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}
