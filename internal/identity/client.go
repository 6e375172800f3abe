// AngelaMos | 2026
// client.go

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/partnerdesk/agreements-api/internal/config"
	"github.com/partnerdesk/agreements-api/internal/core"
)

// Client talks to the identity provider's OAuth endpoints: authorization
// code exchange and userinfo. Token verification lives in Verifier.
type Client struct {
	httpClient *http.Client
	config     config.Auth0Config
}

func NewClient(cfg config.Auth0Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		config:     cfg,
	}
}

type TokenSet struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ExchangeCode redeems an authorization code for tokens.
func (c *Client) ExchangeCode(
	ctx context.Context,
	code string,
) (*TokenSet, error) {
	payload := map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     c.config.ClientID,
		"client_secret": c.config.ClientSecret,
		"code":          code,
		"redirect_uri":  c.config.CallbackURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.config.TokenURL(),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf(
			"token request failed (%d): %s: %w",
			resp.StatusCode,
			string(detail),
			core.ErrUnauthorized,
		)
	}

	var tokens TokenSet
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	return &tokens, nil
}

// UserInfo fetches the profile behind an access token.
func (c *Client) UserInfo(
	ctx context.Context,
	accessToken string,
) (*Claims, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.config.UserInfoURL(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf(
			"userinfo: invalid or expired token: %w",
			core.ErrUnauthorized,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo failed (%d)", resp.StatusCode)
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("userinfo: missing subject")
	}

	return &claims, nil
}
