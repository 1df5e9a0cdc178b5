package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/desertthunder/trax/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Catalog implements [CatalogService] with the client-credentials grant.
//
// One Catalog is shared process-wide. The token is fetched lazily on first use
// and cached; the [oauth2.TokenSource] re-fetches it transparently on expiry,
// so concurrent requests only ever read the source.
type Catalog struct {
	conf       *clientcredentials.Config
	httpClient *http.Client
	baseURL    string

	once   sync.Once
	source oauth2.TokenSource
}

// NewCatalog creates a catalog client for the given client-credentials pair.
func NewCatalog(clientID, clientSecret string) (*Catalog, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: catalog client_id and client_secret required", shared.ErrMissingCredentials)
	}

	return &Catalog{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
		},
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

// PublicProfile fetches the public profile of an arbitrary Spotify user.
func (c *Catalog) PublicProfile(ctx context.Context, spotifyUserID string) (*SpotifyUser, error) {
	endpoint := fmt.Sprintf("/users/%s", url.PathEscape(spotifyUserID))

	var user SpotifyUser
	if err := c.doRequest(ctx, endpoint, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// tokenSource lazily constructs the cached client-credentials token source.
func (c *Catalog) tokenSource() oauth2.TokenSource {
	c.once.Do(func() {
		c.source = c.conf.TokenSource(context.Background())
	})
	return c.source
}

func (c *Catalog) doRequest(ctx context.Context, endpoint string, result any) error {
	token, err := c.tokenSource().Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token.SetAuthHeader(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
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
