package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	trackingdomain "github.com/opsdesk/salesdesk/internal/tracking/domain"
	"go.uber.org/zap"
)

func (s *Server) KajabiToken(c *gin.Context) {
	token, err := s.kajabi.FetchToken(c.Request.Context())
	if err != nil {
		apiFail(c, err)
		return
	}

	apiOK(c, token)
}

type kajabiWebhookRequest struct {
	Event   string `json:"event"`
	Payload struct {
		Email      string `json:"member_email"`
		CustomerID string `json:"customer_id"`
		OfferTitle string `json:"offer_title"`
	} `json:"payload"`
}

// KajabiWebhook matches purchase and refund events to a known lead by
// email and stamps the external customer id for later reconciliation.
// Unknown emails are recorded but not an error; purchases can precede
// the lead landing in the CRM.
func (s *Server) KajabiWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		apiError(c, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	var req kajabiWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	ctx := c.Request.Context()
	_, _ = s.trackingSvc.RecordEvent(ctx, trackingdomain.RecordEventRequest{
		Provider:  "kajabi",
		EventType: req.Event,
		Payload:   raw,
	})

	email := strings.TrimSpace(req.Payload.Email)
	if email == "" {
		apiError(c, http.StatusBadRequest, "member_email is required", nil)
		return
	}

	lead, err := s.leadSvc.FindByEmail(ctx, email)
	if err != nil {
		s.errSink.Record(ctx, "kajabi-webhook", err, raw)
		apiFail(c, err)
		return
	}
	if lead == nil {
		s.log.Info("kajabi event for unknown lead", zap.String("event", req.Event))
		apiOK(c, gin.H{"matched": false})
		return
	}

	if customerID := strings.TrimSpace(req.Payload.CustomerID); customerID != "" {
		if err := s.leadSvc.SetCustomerID(ctx, lead.ID, customerID); err != nil {
			s.errSink.Record(ctx, "kajabi-webhook", err, raw)
			apiFail(c, err)
			return
		}
	}

	apiOK(c, gin.H{"matched": true, "lead_id": lead.ID.String()})
}
