package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trax/internal/models"
	"github.com/desertthunder/trax/internal/services"
)

// RootHandler serves the landing route and doubles as the catch-all: every
// path ServeMux couldn't match elsewhere lands here and gets a JSON 404.
type RootHandler struct{}

func (h *RootHandler) Routes() []string {
	return []string{"/"}
}

func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Not Found", nil)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello, World!"))
}

// AuthHandler serves the OAuth surface: authorization redirect, code exchange,
// and token refresh.
type AuthHandler struct {
	spotify services.Service
	store   UserStore
	logger  *log.Logger
}

// NewAuthHandler creates an AuthHandler backed by the given token service and user store.
func NewAuthHandler(spotify services.Service, store UserStore, logger *log.Logger) *AuthHandler {
	return &AuthHandler{spotify: spotify, store: store, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"/login", "/auth", "/refresh"}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/login":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
			return
		}
		h.login(w, r)
	case "/auth":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
			return
		}
		h.exchange(w, r)
	case "/refresh":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
			return
		}
		h.refresh(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not Found", nil)
	}
}

// login redirects the caller to the authorization URL.
//
// No state parameter is sent: the code comes back through the SPA rather than
// a server callback, so there is nothing to validate it against here.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.spotify.AuthURL(""), http.StatusFound)
}

// authResponse is the merged token-bundle + profile body returned by /auth.
type authResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Image        string `json:"image"`
	Product      string `json:"product"`
	Token        string `json:"token"`
}

// exchange trades an authorization code for tokens, fetches the profile with
// the new access token, persists the user and mints a bearer token.
//
// Either upstream failure aborts the whole operation; nothing is persisted
// unless both calls succeed.
func (h *AuthHandler) exchange(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	bundle, err := h.spotify.ExchangeCode(ctx, body.Code)
	if err != nil {
		h.logger.Warn("code exchange failed", "error", err)
		writeUpstreamError(w, err)
		return
	}

	profile, err := h.spotify.Me(ctx, bundle.AccessToken)
	if err != nil {
		h.logger.Warn("profile fetch failed after exchange", "error", err)
		writeUpstreamError(w, err)
		return
	}

	user := models.NewUser(0, profile.ID, profile.DisplayName, profile.Email)
	user.SetProfile(profile.DisplayName, profile.Email, profile.Image(), profile.Product)
	user.SetTokens(bundle.AccessToken, bundle.RefreshToken,
		time.Now().Add(time.Duration(bundle.ExpiresIn)*time.Second))

	if err := h.store.UpsertBySpotifyID(user); err != nil {
		h.logger.Error("failed to persist user", "spotify_id", profile.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to persist user", err)
		return
	}

	token, err := h.store.IssueToken(user.ID(), 0)
	if err != nil {
		h.logger.Error("failed to issue bearer token", "user", user.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	h.logger.Info("user authorized", "user", user.ID(), "spotify_id", profile.ID)

	writeJSON(w, http.StatusCreated, authResponse{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		ExpiresIn:    bundle.ExpiresIn,
		UserID:       profile.ID,
		Name:         profile.DisplayName,
		Email:        profile.Email,
		Image:        profile.Image(),
		Product:      profile.Product,
		Token:        token,
	})
}

// refresh exchanges a refresh token for a new access token.
//
// The store update afterwards is best effort: the refresh token may belong to
// a client that never completed /auth here.
func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	bundle, err := h.spotify.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		h.logger.Warn("token refresh failed", "error", err)
		writeUpstreamError(w, err)
		return
	}

	expiry := time.Now().Add(time.Duration(bundle.ExpiresIn) * time.Second)
	if err := h.store.UpdateAccessByRefresh(body.RefreshToken, bundle.AccessToken, expiry); err != nil {
		h.logger.Warn("failed to persist refreshed token", "error", err)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"accessToken": bundle.AccessToken,
		"expiresIn":   bundle.ExpiresIn,
	})
}
