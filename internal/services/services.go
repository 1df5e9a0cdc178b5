// package services defines interfaces for the Spotify Web API
package services

import (
	"context"
)

// Service is the OAuth token service: it mediates the authorization-code flow,
// token refresh, and authenticated pass-through calls to the streaming API.
//
// Pass-through calls take the caller-supplied access token explicitly so that
// no token state is shared between requests.
type Service interface {
	// AuthURL builds the authorization URL for user login. An empty state
	// omits the state parameter entirely.
	AuthURL(state string) string

	// ExchangeCode exchanges an authorization code for a token bundle.
	ExchangeCode(ctx context.Context, code string) (*TokenBundle, error)

	// Refresh exchanges a refresh token for a new access token and expiry.
	Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error)

	// Me fetches the profile of the user the access token belongs to.
	Me(ctx context.Context, accessToken string) (*SpotifyUser, error)

	// SearchTracks performs a track search pass-through.
	SearchTracks(ctx context.Context, accessToken, term string) (*SearchResults, error)

	// UserPlaylists lists a given user's playlists.
	UserPlaylists(ctx context.Context, accessToken, userID string) (*SpotifyPaginatedPlaylists, error)

	// FollowedArtists lists artists followed by the authenticated account.
	FollowedArtists(ctx context.Context, accessToken string) (*FollowedArtists, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// CatalogService is the app-level client behind the client-credentials grant,
// used for catalog lookups that need no user authorization.
type CatalogService interface {
	// PublicProfile fetches the public profile of an arbitrary user.
	PublicProfile(ctx context.Context, spotifyUserID string) (*SpotifyUser, error)
}

// TokenBundle holds the result of a code exchange or token refresh.
//
// It is consumed immediately to build a response or feed a follow-up call;
// persistence is the user store's concern.
type TokenBundle struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn"`
}
