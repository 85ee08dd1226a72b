package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opsdesk/salesdesk/internal/providers/ganalytics"
)

// AcademicStats serves the dashboard's main report in the envelope the
// original consumers expect; the heavy lifting is the stats service.
func (s *Server) AcademicStats(c *gin.Context) {
	req, err := s.bindOverviewRequest(c)
	if err != nil {
		status, payload := mapError(err)
		apiError(c, status, payload.Message, payload.Errors)
		return
	}

	resp, err := s.statsSvc.Overview(c.Request.Context(), req)
	if err != nil {
		apiFail(c, err)
		return
	}

	apiOK(c, resp)
}

func (s *Server) GoogleAnalytics(c *gin.Context) {
	var query struct {
		PagePath   string `form:"pagePath"`
		StartDate  string `form:"startDate"`
		EndDate    string `form:"endDate"`
		WholeSite  bool   `form:"wholeSite"`
		PropertyID string `form:"propertyId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		apiError(c, http.StatusBadRequest, "invalid query", nil)
		return
	}
	if strings.TrimSpace(query.StartDate) == "" || strings.TrimSpace(query.EndDate) == "" {
		apiError(c, http.StatusBadRequest, "startDate and endDate are required", nil)
		return
	}

	report, err := s.analytics.RunReport(c.Request.Context(), ganalytics.ReportRequest{
		PagePath:   strings.TrimSpace(query.PagePath),
		StartDate:  strings.TrimSpace(query.StartDate),
		EndDate:    strings.TrimSpace(query.EndDate),
		WholeSite:  query.WholeSite,
		PropertyID: strings.TrimSpace(query.PropertyID),
	})
	if err != nil {
		apiFail(c, err)
		return
	}

	apiOK(c, report)
}
