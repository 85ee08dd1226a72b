package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	"github.com/opsdesk/salesdesk/pkg/db/pagination"
)

type createCallRequest struct {
	LeadID       string    `json:"lead_id"`
	SetterID     string    `json:"setter_id"`
	CloserID     string    `json:"closer_id"`
	BookDate     time.Time `json:"book_date"`
	CallDate     time.Time `json:"call_date"`
	SourceType   string    `json:"source_type"`
	Medium       string    `json:"medium"`
	IsReschedule bool      `json:"is_reschedule"`
	CalendlyURI  string    `json:"calendly_uri"`
}

func (s *Server) CreateCall(c *gin.Context) {
	var req createCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	leadID, err := snowflake.ParseString(strings.TrimSpace(req.LeadID))
	if err != nil || leadID == 0 {
		AbortWithError(c, newValidationError("lead_id", "invalid_lead", "invalid lead_id"))
		return
	}

	setterID, err := parseOptionalSnowflakeID(req.SetterID)
	if err != nil {
		AbortWithError(c, newValidationError("setter_id", "invalid_setter_id", "invalid setter_id"))
		return
	}

	closerID, err := parseOptionalSnowflakeID(req.CloserID)
	if err != nil {
		AbortWithError(c, newValidationError("closer_id", "invalid_closer_id", "invalid closer_id"))
		return
	}

	resp, err := s.callSvc.Create(c.Request.Context(), calldomain.CreateCallRequest{
		LeadID:       leadID,
		SetterID:     setterID,
		CloserID:     closerID,
		BookDate:     req.BookDate,
		CallDate:     req.CallDate,
		SourceType:   strings.TrimSpace(req.SourceType),
		Medium:       strings.TrimSpace(req.Medium),
		IsReschedule: req.IsReschedule,
		CalendlyURI:  strings.TrimSpace(req.CalendlyURI),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCalls(c *gin.Context) {
	var query struct {
		pagination.Pagination
		SetterID     string `form:"setter_id"`
		CloserID     string `form:"closer_id"`
		LeadID       string `form:"lead_id"`
		BookDateFrom string `form:"book_date_from"`
		BookDateTo   string `form:"book_date_to"`
		CallDateFrom string `form:"call_date_from"`
		CallDateTo   string `form:"call_date_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	setterID, err := parseOptionalSnowflakeID(query.SetterID)
	if err != nil {
		AbortWithError(c, newValidationError("setter_id", "invalid_setter_id", "invalid setter_id"))
		return
	}

	closerID, err := parseOptionalSnowflakeID(query.CloserID)
	if err != nil {
		AbortWithError(c, newValidationError("closer_id", "invalid_closer_id", "invalid closer_id"))
		return
	}

	leadID, err := parseOptionalSnowflakeID(query.LeadID)
	if err != nil {
		AbortWithError(c, newValidationError("lead_id", "invalid_lead_id", "invalid lead_id"))
		return
	}

	bookDateFrom, err := parseOptionalTime(query.BookDateFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("book_date_from", "invalid_book_date_from", "invalid book_date_from"))
		return
	}

	bookDateTo, err := parseOptionalTime(query.BookDateTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("book_date_to", "invalid_book_date_to", "invalid book_date_to"))
		return
	}

	callDateFrom, err := parseOptionalTime(query.CallDateFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("call_date_from", "invalid_call_date_from", "invalid call_date_from"))
		return
	}

	callDateTo, err := parseOptionalTime(query.CallDateTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("call_date_to", "invalid_call_date_to", "invalid call_date_to"))
		return
	}

	resp, err := s.callSvc.List(c.Request.Context(), calldomain.ListCallRequest{
		PageToken:    query.PageToken,
		PageSize:     query.PageSize,
		SetterID:     setterID,
		CloserID:     closerID,
		LeadID:       leadID,
		BookDateFrom: bookDateFrom,
		BookDateTo:   bookDateTo,
		CallDateFrom: callDateFrom,
		CallDateTo:   callDateTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCallByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.callSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCallRequest struct {
	SetterID  *string    `json:"setter_id"`
	CloserID  *string    `json:"closer_id"`
	CallDate  *time.Time `json:"call_date"`
	PickedUp  any        `json:"picked_up"`
	Confirmed any        `json:"confirmed"`
	ShowedUp  any        `json:"showed_up"`
}

// UpdateCall applies partial status updates. Tri-state fields accept
// booleans, "yes"/"no"/"tbd" strings, or 0/1 numbers; absent fields
// leave the stored value untouched.
func (s *Server) UpdateCall(c *gin.Context) {
	var req updateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := calldomain.UpdateCallRequest{
		CallDate: req.CallDate,
	}

	if req.SetterID != nil {
		setterID, err := parseOptionalSnowflakeID(*req.SetterID)
		if err != nil {
			AbortWithError(c, newValidationError("setter_id", "invalid_setter_id", "invalid setter_id"))
			return
		}
		update.SetterID = setterID
	}
	if req.CloserID != nil {
		closerID, err := parseOptionalSnowflakeID(*req.CloserID)
		if err != nil {
			AbortWithError(c, newValidationError("closer_id", "invalid_closer_id", "invalid closer_id"))
			return
		}
		update.CloserID = closerID
	}
	if req.PickedUp != nil {
		state := calldomain.ParseTriState(req.PickedUp)
		update.PickedUp = &state
	}
	if req.Confirmed != nil {
		state := calldomain.ParseTriState(req.Confirmed)
		update.Confirmed = &state
	}
	if req.ShowedUp != nil {
		state := calldomain.ParseTriState(req.ShowedUp)
		update.ShowedUp = &state
	}

	resp, err := s.callSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCallOutcome(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid call id"))
		return
	}

	resp, err := s.outcomeSvc.GetByCall(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
