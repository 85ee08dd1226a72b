package domain

import (
	"context"
	"errors"
)

type StoreClickRequest struct {
	FBCLID           string
	CalendlyEventURI string
	IPAddress        string
}

type RecordEventRequest struct {
	Provider  string
	EventType string
	Payload   []byte
}

type Service interface {
	StoreClick(ctx context.Context, req StoreClickRequest) (ClickTracking, error)
	// RecordEvent persists the raw webhook payload. Best-effort
	// callers may ignore the error; the row is an audit trail, not a
	// processing queue.
	RecordEvent(ctx context.Context, req RecordEventRequest) (WebhookEvent, error)
	ListEvents(ctx context.Context, provider string, limit int) ([]WebhookEvent, error)
}

var ErrMissingFBCLID = errors.New("missing_fbclid")
