package manychat

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

// Client wraps ManyChat's REST API. All calls require the account's
// bearer token; without one every method fails with
// upstream.ErrMissingCredentials.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(cfg config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.ManyChatBaseURL, "/"),
		token:   strings.TrimSpace(cfg.ManyChatToken),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type Field struct {
	FieldName  string `json:"field_name,omitempty"`
	FieldID    string `json:"field_id,omitempty"`
	FieldValue any    `json:"field_value"`
}

type Subscriber struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// SetFieldsByName sets custom fields on a subscriber by field name.
func (c *Client) SetFieldsByName(ctx context.Context, subscriberID string, fields []Field) (json.RawMessage, error) {
	body := map[string]any{
		"subscriber_id": subscriberID,
		"fields":        fields,
	}
	return c.post(ctx, "/fb/subscriber/setCustomFields", body)
}

// SetCustomField sets one custom field by id, the raw form the UI's
// field-picker uses.
func (c *Client) SetCustomField(ctx context.Context, subscriberID, fieldID string, value any) (json.RawMessage, error) {
	body := map[string]any{
		"subscriber_id": subscriberID,
		"field_id":      fieldID,
		"field_value":   value,
	}
	return c.post(ctx, "/fb/subscriber/setCustomField", body)
}

func (c *Client) FindUserByPhone(ctx context.Context, phone string) (json.RawMessage, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/fb/subscriber/findBySystemField?phone=%s", c.baseURL, strings.TrimSpace(phone))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) CreateUser(ctx context.Context, sub Subscriber) (json.RawMessage, error) {
	body := map[string]any{
		"first_name":     sub.FirstName,
		"last_name":      sub.LastName,
		"phone":          sub.Phone,
		"email":          sub.Email,
		"has_opt_in_sms": true,
		"consent_phrase": "booking flow",
	}
	return c.post(ctx, "/fb/subscriber/createSubscriber", body)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

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
		return raw, fmt.Errorf("%w: manychat status %d", upstream.ErrUpstream, resp.StatusCode)
	}
	return raw, nil
}

func (c *Client) ready() error {
	if c.token == "" {
		return upstream.ErrMissingCredentials
	}
	return nil
}
