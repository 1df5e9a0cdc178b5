// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/trax/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// defaultScopes is the fixed permission set requested on login.
var defaultScopes = []string{
	"streaming",
	"user-read-recently-played",
	"user-read-playback-state",
	"user-top-read",
	"user-modify-playback-state",
	"user-follow-read",
	"user-library-read",
	"user-library-modify",
	"user-read-email",
	"user-read-private",
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// Image returns the URL of the first profile image, or an empty string.
func (u *SpotifyUser) Image() string {
	if len(u.Images) == 0 {
		return ""
	}
	return u.Images[0].URL
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	Explicit    bool            `json:"explicit"`
	ExternalIDs externalIDs     `json:"external_ids"`
	Popularity  int             `json:"popularity"`
	URI         string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// SpotifyPaginatedTracks represents a paginated page of track results.
type SpotifyPaginatedTracks struct {
	Items    []SpotifyTrack `json:"items"`
	Total    int            `json:"total"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
}

// SearchResults represents the response of a track search.
type SearchResults struct {
	Tracks SpotifyPaginatedTracks `json:"tracks"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Owner       Owner               `json:"owner"`
	Public      bool                `json:"public"`
	Tracks      simplePlaylistTrack `json:"tracks"`
	Images      []SpotifyImage      `json:"images"`
	URI         string              `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items    []SpotifySimplePlaylist `json:"items"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
}

type artistCursor struct {
	After string `json:"after"`
}

type followedArtistPage struct {
	Items   []SpotifyArtist `json:"items"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Cursors artistCursor    `json:"cursors"`
}

// FollowedArtists represents the response of a followed-artists listing.
type FollowedArtists struct {
	Artists followedArtistPage `json:"artists"`
}

// SpotifyService implements the [Service] interface for Spotify API interactions.
//
// Uses [oauth2] for the authorization-code and refresh grants. Pass-through
// calls carry the caller's access token on each request rather than holding
// token state on the service.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       defaultScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
//
// With an empty state the URL carries no state parameter; callers that want
// CSRF protection pass a value from [shared.GenerateState].
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for an access/refresh token pair.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*TokenBundle, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return bundleFromToken(token), nil
}

// Refresh exchanges a refresh token for a new access token and expiry.
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", shared.ErrRefreshFailed)
	}

	source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return bundleFromToken(token), nil
}

// Me retrieves the profile of the user owning the access token.
func (s *SpotifyService) Me(ctx context.Context, accessToken string) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, accessToken, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchTracks performs a track search with the caller's access token.
func (s *SpotifyService) SearchTracks(ctx context.Context, accessToken, term string) (*SearchResults, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track", url.QueryEscape(term))

	var results SearchResults
	if err := s.doRequest(ctx, accessToken, endpoint, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// UserPlaylists retrieves a given user's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context, accessToken, userID string) (*SpotifyPaginatedPlaylists, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	var playlists SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, accessToken, endpoint, &playlists); err != nil {
		return nil, err
	}
	return &playlists, nil
}

// FollowedArtists retrieves the artists followed by the authenticated account.
func (s *SpotifyService) FollowedArtists(ctx context.Context, accessToken string) (*FollowedArtists, error) {
	var artists FollowedArtists
	if err := s.doRequest(ctx, accessToken, "/me/following?type=artist", &artists); err != nil {
		return nil, err
	}
	return &artists, nil
}

// doRequest performs an authenticated GET against the Spotify API.
//
// The access token is attached per request; the service itself holds no token.
func (s *SpotifyService) doRequest(ctx context.Context, accessToken, endpoint string, result any) error {
	if accessToken == "" {
		return shared.ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, string(body))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// bundleFromToken converts an [oauth2.Token] into the wire-facing bundle.
func bundleFromToken(token *oauth2.Token) *TokenBundle {
	bundle := &TokenBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}

	switch v := token.Extra("expires_in").(type) {
	case float64:
		bundle.ExpiresIn = int(v)
	case int64:
		bundle.ExpiresIn = int(v)
	default:
		if !token.Expiry.IsZero() {
			bundle.ExpiresIn = int(time.Until(token.Expiry).Seconds())
		}
	}

	return bundle
}
