package meta

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/providers/upstream"
)

// Client sends server-side events to Meta's Conversions API.
type Client struct {
	baseURL     string
	pixelID     string
	accessToken string
	client      *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.MetaBaseURL, "/"),
		pixelID:     strings.TrimSpace(cfg.MetaPixelID),
		accessToken: strings.TrimSpace(cfg.MetaAccessToken),
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type Event struct {
	EventName  string
	EventTime  time.Time
	Email      string
	Phone      string
	FBCLID     string
	SourceURL  string
	CustomData map[string]any
}

// SendEvent relays one conversion event. PII goes out hashed, never
// raw, per Meta's matching spec.
func (c *Client) SendEvent(ctx context.Context, event Event) (json.RawMessage, error) {
	if c.pixelID == "" || c.accessToken == "" {
		return nil, upstream.ErrMissingCredentials
	}

	userData := map[string]any{}
	if email := normalize(event.Email); email != "" {
		userData["em"] = []string{hash(email)}
	}
	if phone := normalize(event.Phone); phone != "" {
		userData["ph"] = []string{hash(phone)}
	}
	if fbclid := strings.TrimSpace(event.FBCLID); fbclid != "" {
		userData["fbc"] = fmt.Sprintf("fb.1.%d.%s", event.EventTime.UnixMilli(), fbclid)
	}

	body := map[string]any{
		"data": []map[string]any{{
			"event_name":       event.EventName,
			"event_time":       event.EventTime.Unix(),
			"action_source":    "website",
			"event_source_url": event.SourceURL,
			"user_data":        userData,
			"custom_data":      event.CustomData,
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/events?access_token=%s", c.baseURL, c.pixelID, c.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", upstream.ErrUpstream, err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return raw, upstream.ErrMissingCredentials
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return raw, fmt.Errorf("%w: meta status %d", upstream.ErrUpstream, resp.StatusCode)
	}
	return raw, nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
