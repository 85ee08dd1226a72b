package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opsdesk/salesdesk/internal/providers/upstream"
)

// Integration routes under /api speak the webhook senders' envelope,
// {success, data|error, details?}, instead of the dashboard's error
// middleware. A response is always written, so the middleware stays
// out of the way.

func apiOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func apiError(c *gin.Context, status int, message string, details any) {
	body := gin.H{"success": false, "error": message}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, body)
}

// apiFail maps provider and domain errors onto the envelope, keeping
// the same status taxonomy as the dashboard middleware.
func apiFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upstream.ErrMissingCredentials):
		apiError(c, http.StatusServiceUnavailable, "integration not configured", nil)
	case errors.Is(err, upstream.ErrUpstream):
		apiError(c, http.StatusInternalServerError, "upstream service error", err.Error())
	default:
		status, payload := mapError(err)
		apiError(c, status, payload.Message, nil)
	}
}

// clientIP prefers the proxy headers the edge actually sets, in fixed
// priority order, before falling back to the socket address.
func clientIP(c *gin.Context) string {
	for _, header := range []string{"x-forwarded-for", "x-real-ip", "cf-connecting-ip"} {
		if value := strings.TrimSpace(c.GetHeader(header)); value != "" {
			// x-forwarded-for may hold a chain; the client is first.
			return strings.TrimSpace(strings.SplitN(value, ",", 2)[0])
		}
	}
	return c.ClientIP()
}
