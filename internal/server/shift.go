package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	shiftdomain "github.com/opsdesk/salesdesk/internal/shift/domain"
)

type createOverrideRequest struct {
	SetterID  string `json:"setter_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (s *Server) CreateShiftOverride(c *gin.Context) {
	var req createOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	setterID, err := snowflake.ParseString(strings.TrimSpace(req.SetterID))
	if err != nil || setterID == 0 {
		AbortWithError(c, newValidationError("setter_id", "invalid_setter", "invalid setter_id"))
		return
	}

	resp, err := s.shiftSvc.CreateOverride(c.Request.Context(), shiftdomain.CreateOverrideRequest{
		SetterID:  setterID,
		Date:      strings.TrimSpace(req.Date),
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListShiftOverrides(c *gin.Context) {
	resp, err := s.shiftSvc.ListOverrides(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteShiftOverride(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.shiftSvc.DeleteOverride(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

type createWeeklyShiftRequest struct {
	SetterID  string `json:"setter_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (s *Server) CreateWeeklyShift(c *gin.Context) {
	var req createWeeklyShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	setterID, err := snowflake.ParseString(strings.TrimSpace(req.SetterID))
	if err != nil || setterID == 0 {
		AbortWithError(c, newValidationError("setter_id", "invalid_setter", "invalid setter_id"))
		return
	}

	resp, err := s.shiftSvc.CreateWeeklyShift(c.Request.Context(), shiftdomain.CreateWeeklyShiftRequest{
		SetterID:  setterID,
		DayOfWeek: req.DayOfWeek,
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListWeeklyShifts(c *gin.Context) {
	resp, err := s.shiftSvc.ListWeeklyShifts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteWeeklyShift(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.shiftSvc.DeleteWeeklyShift(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
