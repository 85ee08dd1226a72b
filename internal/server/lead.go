package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	"github.com/opsdesk/salesdesk/pkg/db/pagination"
)

type createLeadRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Source string `json:"source"`
	Medium string `json:"medium"`
}

func (s *Server) CreateLead(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Create(c.Request.Context(), leaddomain.CreateLeadRequest{
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.TrimSpace(req.Email),
		Phone:  strings.TrimSpace(req.Phone),
		Source: strings.TrimSpace(req.Source),
		Medium: strings.TrimSpace(req.Medium),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLeads(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Email       string `form:"email"`
		Phone       string `form:"phone"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}

	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	resp, err := s.leadSvc.List(c.Request.Context(), leaddomain.ListLeadRequest{
		PageToken:   query.PageToken,
		PageSize:    query.PageSize,
		Email:       strings.TrimSpace(query.Email),
		Phone:       strings.TrimSpace(query.Phone),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLeadByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.leadSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
