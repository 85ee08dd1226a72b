package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	trackingdomain "github.com/opsdesk/salesdesk/internal/tracking/domain"
)

type zoomWebhookRequest struct {
	Event   string `json:"event"`
	Payload struct {
		PlainToken string `json:"plainToken"`
	} `json:"payload"`
}

// ZoomWebhook answers Zoom's endpoint.url_validation challenge and
// archives every other event for the automation pipeline.
func (s *Server) ZoomWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		apiError(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	var req zoomWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	if req.Event == "endpoint.url_validation" {
		if s.cfg.ZoomSecretToken == "" {
			apiError(c, http.StatusServiceUnavailable, "integration not configured", nil)
			return
		}
		mac := hmac.New(sha256.New, []byte(s.cfg.ZoomSecretToken))
		mac.Write([]byte(req.Payload.PlainToken))
		c.JSON(http.StatusOK, gin.H{
			"plainToken":     req.Payload.PlainToken,
			"encryptedToken": hex.EncodeToString(mac.Sum(nil)),
		})
		return
	}

	_, _ = s.trackingSvc.RecordEvent(c.Request.Context(), trackingdomain.RecordEventRequest{
		Provider:  "zoom",
		EventType: req.Event,
		Payload:   raw,
	})

	apiOK(c, gin.H{"recorded": req.Event})
}

type n8nWebhookRequest struct {
	EventType string `json:"event_type"`
	Lead      *struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Phone  string `json:"phone"`
		Source string `json:"source"`
		Medium string `json:"medium"`
	} `json:"lead"`
}

// N8NWebhook is the generic automation ingest: every payload lands in
// webhook_events, and an embedded lead block upserts the lead inline.
func (s *Server) N8NWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		apiError(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	var req n8nWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	ctx := c.Request.Context()
	eventType := strings.TrimSpace(req.EventType)
	if eventType == "" {
		eventType = "unknown"
	}

	event, err := s.trackingSvc.RecordEvent(ctx, trackingdomain.RecordEventRequest{
		Provider:  "n8n",
		EventType: eventType,
		Payload:   raw,
	})
	if err != nil {
		apiFail(c, err)
		return
	}

	data := gin.H{"event_id": event.ID.String()}
	if req.Lead != nil {
		lead, err := s.leadSvc.Upsert(ctx, leaddomain.UpsertLeadRequest{
			Name:   strings.TrimSpace(req.Lead.Name),
			Email:  strings.TrimSpace(req.Lead.Email),
			Phone:  strings.TrimSpace(req.Lead.Phone),
			Source: strings.TrimSpace(req.Lead.Source),
			Medium: strings.TrimSpace(req.Lead.Medium),
		})
		if err != nil {
			s.errSink.Record(ctx, "n8n-webhook", err, raw)
			apiFail(c, err)
			return
		}
		data["lead_id"] = lead.ID.String()
	}

	apiOK(c, data)
}
