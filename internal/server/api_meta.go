package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opsdesk/salesdesk/internal/providers/meta"
	trackingdomain "github.com/opsdesk/salesdesk/internal/tracking/domain"
)

type metaConversionRequest struct {
	EventName  string         `json:"eventName"`
	EventTime  *time.Time     `json:"eventTime"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	FBCLID     string         `json:"fbclid"`
	SourceURL  string         `json:"sourceUrl"`
	CustomData map[string]any `json:"customData"`
}

func (s *Server) MetaConversion(c *gin.Context) {
	var req metaConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if strings.TrimSpace(req.EventName) == "" {
		apiError(c, http.StatusBadRequest, "eventName is required", nil)
		return
	}

	eventTime := s.clock.Now()
	if req.EventTime != nil {
		eventTime = *req.EventTime
	}

	resp, err := s.meta.SendEvent(c.Request.Context(), meta.Event{
		EventName:  strings.TrimSpace(req.EventName),
		EventTime:  eventTime,
		Email:      req.Email,
		Phone:      req.Phone,
		FBCLID:     req.FBCLID,
		SourceURL:  strings.TrimSpace(req.SourceURL),
		CustomData: req.CustomData,
	})
	if err != nil {
		apiFail(c, err)
		return
	}

	apiOK(c, resp)
}

type storeFBCLIDRequest struct {
	FBCLID           string `json:"fbclid"`
	CalendlyEventURI string `json:"calendly_event_uri"`
}

func (s *Server) StoreFBCLID(c *gin.Context) {
	var req storeFBCLIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	row, err := s.trackingSvc.StoreClick(c.Request.Context(), trackingdomain.StoreClickRequest{
		FBCLID:           strings.TrimSpace(req.FBCLID),
		CalendlyEventURI: strings.TrimSpace(req.CalendlyEventURI),
		IPAddress:        clientIP(c),
	})
	if err != nil {
		apiFail(c, err)
		return
	}

	apiOK(c, row)
}
