// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/trax/internal/services"
)

// MockService is a test double for [services.Service]
type MockService struct {
	AuthURLFunc         func(state string) string
	ExchangeCodeFunc    func(ctx context.Context, code string) (*services.TokenBundle, error)
	RefreshFunc         func(ctx context.Context, refreshToken string) (*services.TokenBundle, error)
	MeFunc              func(ctx context.Context, accessToken string) (*services.SpotifyUser, error)
	SearchTracksFunc    func(ctx context.Context, accessToken, term string) (*services.SearchResults, error)
	UserPlaylistsFunc   func(ctx context.Context, accessToken, userID string) (*services.SpotifyPaginatedPlaylists, error)
	FollowedArtistsFunc func(ctx context.Context, accessToken string) (*services.FollowedArtists, error)
}

func (m *MockService) AuthURL(state string) string {
	if m.AuthURLFunc != nil {
		return m.AuthURLFunc(state)
	}
	return "https://accounts.example.com/authorize"
}

func (m *MockService) ExchangeCode(ctx context.Context, code string) (*services.TokenBundle, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return &services.TokenBundle{AccessToken: "mock-access"}, nil
}

func (m *MockService) Refresh(ctx context.Context, refreshToken string) (*services.TokenBundle, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return &services.TokenBundle{AccessToken: "mock-refreshed"}, nil
}

func (m *MockService) Me(ctx context.Context, accessToken string) (*services.SpotifyUser, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, accessToken)
	}
	return &services.SpotifyUser{ID: "mock-user"}, nil
}

func (m *MockService) SearchTracks(ctx context.Context, accessToken, term string) (*services.SearchResults, error) {
	if m.SearchTracksFunc != nil {
		return m.SearchTracksFunc(ctx, accessToken, term)
	}
	return &services.SearchResults{}, nil
}

func (m *MockService) UserPlaylists(ctx context.Context, accessToken, userID string) (*services.SpotifyPaginatedPlaylists, error) {
	if m.UserPlaylistsFunc != nil {
		return m.UserPlaylistsFunc(ctx, accessToken, userID)
	}
	return &services.SpotifyPaginatedPlaylists{}, nil
}

func (m *MockService) FollowedArtists(ctx context.Context, accessToken string) (*services.FollowedArtists, error) {
	if m.FollowedArtistsFunc != nil {
		return m.FollowedArtistsFunc(ctx, accessToken)
	}
	return &services.FollowedArtists{}, nil
}

func (m *MockService) Name() string { return "mock" }

// MockCatalog is a test double for [services.CatalogService]
type MockCatalog struct {
	PublicProfileFunc func(ctx context.Context, spotifyUserID string) (*services.SpotifyUser, error)
}

func (m *MockCatalog) PublicProfile(ctx context.Context, spotifyUserID string) (*services.SpotifyUser, error) {
	if m.PublicProfileFunc != nil {
		return m.PublicProfileFunc(ctx, spotifyUserID)
	}
	return &services.SpotifyUser{ID: spotifyUserID}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
