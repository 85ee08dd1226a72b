package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ListWebhookEvents exposes the raw webhook audit trail so ops can
// check what a provider actually sent when a sync looks wrong.
func (s *Server) ListWebhookEvents(c *gin.Context) {
	var query struct {
		Provider string `form:"provider"`
		Limit    string `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	limit := 0
	if trimmed := strings.TrimSpace(query.Limit); trimmed != "" {
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
		limit = parsed
	}

	resp, err := s.trackingSvc.ListEvents(c.Request.Context(), query.Provider, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
