package kajabi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/providers/upstream"
)

// Client exchanges Kajabi client credentials for an access token. The
// dashboard only needs the token; resource calls happen client-side.
type Client struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		tokenURL:     strings.TrimSpace(cfg.KajabiTokenURL),
		clientID:     strings.TrimSpace(cfg.KajabiClientID),
		clientSecret: strings.TrimSpace(cfg.KajabiClientSecret),
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) FetchToken(ctx context.Context) (Token, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return Token{}, upstream.ErrMissingCredentials
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", upstream.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Token{}, upstream.ErrMissingCredentials
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return Token{}, fmt.Errorf("%w: kajabi status %d", upstream.ErrUpstream, resp.StatusCode)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Token{}, fmt.Errorf("%w: decode token: %v", upstream.ErrUpstream, err)
	}
	return token, nil
}
