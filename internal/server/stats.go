package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opsdesk/salesdesk/internal/config"
	statsdomain "github.com/opsdesk/salesdesk/internal/stats/domain"
)

func (s *Server) StatsOverview(c *gin.Context) {
	req, err := s.bindOverviewRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.statsSvc.Overview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// bindOverviewRequest resolves date-only window boundaries in the
// effective report timezone: the request's timezone override when set,
// the configured report timezone otherwise.
func (s *Server) bindOverviewRequest(c *gin.Context) (statsdomain.OverviewRequest, error) {
	var query struct {
		Preset   string `form:"preset"`
		From     string `form:"from"`
		To       string `form:"to"`
		Timezone string `form:"timezone"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		return statsdomain.OverviewRequest{}, invalidRequestError()
	}

	tzName := strings.TrimSpace(query.Timezone)
	if tzName == "" {
		tzName = s.salesConfig.Get().ReportTimezone
	}
	loc := config.SalesConfig{ReportTimezone: tzName}.Location()

	from, err := parseOptionalTimeIn(query.From, false, loc)
	if err != nil {
		return statsdomain.OverviewRequest{}, newValidationError("from", "invalid_from", "invalid from")
	}

	to, err := parseOptionalTimeIn(query.To, true, loc)
	if err != nil {
		return statsdomain.OverviewRequest{}, newValidationError("to", "invalid_to", "invalid to")
	}

	return statsdomain.OverviewRequest{
		Preset:   strings.TrimSpace(query.Preset),
		From:     from,
		To:       to,
		Timezone: strings.TrimSpace(query.Timezone),
	}, nil
}
