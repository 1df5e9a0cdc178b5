package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trax/internal/services"
)

// MusicHandler serves the authenticated pass-through calls. Each request
// carries its own access token in the body and is forwarded with minimal
// transformation; upstream responses are relayed as-is.
type MusicHandler struct {
	spotify services.Service
	logger  *log.Logger
}

// NewMusicHandler creates a MusicHandler backed by the given token service.
func NewMusicHandler(spotify services.Service, logger *log.Logger) *MusicHandler {
	return &MusicHandler{spotify: spotify, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *MusicHandler) Routes() []string {
	return []string{"/tracks", "/playlist", "/profile-artists"}
}

func (h *MusicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	switch r.URL.Path {
	case "/tracks":
		h.tracks(w, r)
	case "/playlist":
		h.playlists(w, r)
	case "/profile-artists":
		h.followedArtists(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not Found", nil)
	}
}

func (h *MusicHandler) tracks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token      string `json:"token"`
		SearchTerm string `json:"searchTerm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	results, err := h.spotify.SearchTracks(r.Context(), body.Token, body.SearchTerm)
	if err != nil {
		h.logger.Warn("track search failed", "error", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, results)
}

func (h *MusicHandler) playlists(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessToken string `json:"accessToken"`
		UserID      string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	playlists, err := h.spotify.UserPlaylists(r.Context(), body.AccessToken, body.UserID)
	if err != nil {
		h.logger.Warn("playlist listing failed", "user", body.UserID, "error", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, playlists)
}

func (h *MusicHandler) followedArtists(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	artists, err := h.spotify.FollowedArtists(r.Context(), body.AccessToken)
	if err != nil {
		h.logger.Warn("followed-artists listing failed", "error", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, artists)
}

// ProfileHandler serves the bearer-protected profile route using the shared
// client-credentials catalog client. It must be mounted behind [BearerAuth].
type ProfileHandler struct {
	catalog services.CatalogService
	logger  *log.Logger
}

// NewProfileHandler creates a ProfileHandler backed by the catalog client.
func NewProfileHandler(catalog services.CatalogService, logger *log.Logger) *ProfileHandler {
	return &ProfileHandler{catalog: catalog, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ProfileHandler) Routes() []string {
	return []string{"/me"}
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		// BearerAuth guarantees a resolved user; reaching here means the
		// handler was mounted without it.
		writeError(w, http.StatusUnauthorized, "Invalid Login", nil)
		return
	}

	profile, err := h.catalog.PublicProfile(r.Context(), user.SpotifyID())
	if err != nil {
		h.logger.Warn("public profile fetch failed", "spotify_id", user.SpotifyID(), "error", err)
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
