// Package google implements the identity-provider boundary: exchanging an
// authorization code for a provider access token and fetching the profile
// that token grants. Only the Google authorization-code flow is modeled.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/solvexa/authgate/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the subset of the provider's userinfo response the engine needs
// to reconcile a federated identity with a local user record.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentityExchange is the contract the auth engine consumes. Both operations
// report provider-side failures as common.ErrorUpstreamAuth.
type IdentityExchange interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// Client talks to Google's OAuth endpoints.
type Client struct {
	conf        *oauth2.Config
	httpClient  *http.Client
	userInfoURL string
}

// NewClient constructs a Client from provider client credentials.
func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userInfoURL: userInfoEndpoint,
	}
}

// AuthCodeURL returns the provider consent URL the browser is sent to.
// Offline access with forced consent matches the web client's settings.
func (c *Client) AuthCodeURL(state string) string {
	return c.conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode turns an authorization code into a provider access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: code exchange: %v", common.ErrorUpstreamAuth, err)
	}
	return token.AccessToken, nil
}

// FetchProfile retrieves the federated id and email the provider access
// token grants.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUpstreamAuth, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo request: %v", common.ErrorUpstreamAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", common.ErrorUpstreamAuth, resp.StatusCode)
	}

	profile := &Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("%w: userinfo decode: %v", common.ErrorUpstreamAuth, err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: userinfo response incomplete", common.ErrorUpstreamAuth)
	}
	return profile, nil
}
