package calendly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/providers/upstream"
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.CalendlyBaseURL, "/"),
		token:   strings.TrimSpace(cfg.CalendlyToken),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// CancelEvent cancels a scheduled event. eventURI is Calendly's full
// event resource URI; only its UUID tail goes into the cancel path.
func (c *Client) CancelEvent(ctx context.Context, eventURI, reason string) (json.RawMessage, error) {
	if c.token == "" {
		return nil, upstream.ErrMissingCredentials
	}
	uuid := eventUUID(eventURI)
	if uuid == "" {
		return nil, fmt.Errorf("%w: empty event uri", upstream.ErrUpstream)
	}

	payload, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/scheduled_events/%s/cancellation", c.baseURL, uuid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil && resp.StatusCode != http.StatusNoContent {
		return nil, fmt.Errorf("%w: decode response: %v", upstream.ErrUpstream, err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return raw, upstream.ErrMissingCredentials
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return raw, fmt.Errorf("%w: calendly status %d", upstream.ErrUpstream, resp.StatusCode)
	}
	return raw, nil
}

func eventUUID(uri string) string {
	uri = strings.TrimRight(strings.TrimSpace(uri), "/")
	if uri == "" {
		return ""
	}
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}
