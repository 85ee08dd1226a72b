package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	trackingdomain "github.com/opsdesk/salesdesk/internal/tracking/domain"
	"go.uber.org/zap"
)

type calendlyWebhookRequest struct {
	Event   string `json:"event"`
	Payload struct {
		Name           string `json:"name"`
		Email          string `json:"email"`
		TextReminder   string `json:"text_reminder_number"`
		Rescheduled    bool   `json:"rescheduled"`
		ScheduledEvent struct {
			URI       string    `json:"uri"`
			StartTime time.Time `json:"start_time"`
		} `json:"scheduled_event"`
		Tracking struct {
			UTMSource string `json:"utm_source"`
			UTMMedium string `json:"utm_medium"`
		} `json:"tracking"`
	} `json:"payload"`
}

// CalendlyWebhook turns invitee lifecycle events into lead and call
// rows. Creation books a call; cancellation marks the booked call as
// not confirmed so it drops out of the show-up funnel.
func (s *Server) CalendlyWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		apiError(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	var req calendlyWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	ctx := c.Request.Context()
	_, _ = s.trackingSvc.RecordEvent(ctx, trackingdomain.RecordEventRequest{
		Provider:  "calendly",
		EventType: req.Event,
		Payload:   raw,
	})

	switch req.Event {
	case "invitee.created":
		lead, err := s.leadSvc.Upsert(ctx, leaddomain.UpsertLeadRequest{
			Name:   strings.TrimSpace(req.Payload.Name),
			Email:  strings.TrimSpace(req.Payload.Email),
			Phone:  strings.TrimSpace(req.Payload.TextReminder),
			Source: strings.TrimSpace(req.Payload.Tracking.UTMSource),
			Medium: strings.TrimSpace(req.Payload.Tracking.UTMMedium),
		})
		if err != nil {
			s.errSink.Record(ctx, "calendly-webhook", err, raw)
			apiFail(c, err)
			return
		}

		call, err := s.callSvc.Create(ctx, calldomain.CreateCallRequest{
			LeadID:       lead.ID,
			BookDate:     s.clock.Now(),
			CallDate:     req.Payload.ScheduledEvent.StartTime,
			SourceType:   strings.TrimSpace(req.Payload.Tracking.UTMSource),
			Medium:       strings.TrimSpace(req.Payload.Tracking.UTMMedium),
			IsReschedule: req.Payload.Rescheduled,
			CalendlyURI:  strings.TrimSpace(req.Payload.ScheduledEvent.URI),
		})
		if err != nil {
			s.errSink.Record(ctx, "calendly-webhook", err, raw)
			apiFail(c, err)
			return
		}

		apiOK(c, gin.H{"lead_id": lead.ID.String(), "call_id": call.ID.String()})

	case "invitee.canceled":
		call, err := s.callSvc.FindByCalendlyURI(ctx, strings.TrimSpace(req.Payload.ScheduledEvent.URI))
		if err != nil {
			s.errSink.Record(ctx, "calendly-webhook", err, raw)
			apiFail(c, err)
			return
		}
		if call == nil {
			apiOK(c, gin.H{"matched": false})
			return
		}

		notConfirmed := calldomain.TriNo
		if _, err := s.callSvc.Update(ctx, call.ID.String(), calldomain.UpdateCallRequest{
			Confirmed: &notConfirmed,
		}); err != nil {
			s.errSink.Record(ctx, "calendly-webhook", err, raw)
			apiFail(c, err)
			return
		}

		apiOK(c, gin.H{"matched": true, "call_id": call.ID.String()})

	default:
		s.log.Debug("calendly event ignored", zap.String("event", req.Event))
		apiOK(c, gin.H{"ignored": req.Event})
	}
}

type cancelCalendlyRequest struct {
	EventURI string `json:"event_uri"`
	Reason   string `json:"reason"`
}

func (s *Server) CancelCalendly(c *gin.Context) {
	var req cancelCalendlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if strings.TrimSpace(req.EventURI) == "" {
		apiError(c, http.StatusBadRequest, "event_uri is required", nil)
		return
	}

	resp, err := s.calendly.CancelEvent(c.Request.Context(), req.EventURI, strings.TrimSpace(req.Reason))
	if err != nil {
		apiFail(c, err)
		return
	}

	apiOK(c, resp)
}
