package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
)

type createSetterRequest struct {
	Name      string `json:"name"`
	DiscordID string `json:"discord_id"`
}

func (s *Server) CreateSetter(c *gin.Context) {
	var req createSetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.teamSvc.CreateSetter(c.Request.Context(), teamdomain.CreateSetterRequest{
		Name:      strings.TrimSpace(req.Name),
		DiscordID: strings.TrimSpace(req.DiscordID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSetters(c *gin.Context) {
	resp, err := s.teamSvc.ListSetters(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createCloserRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateCloser(c *gin.Context) {
	var req createCloserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.teamSvc.CreateCloser(c.Request.Context(), teamdomain.CreateCloserRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClosers(c *gin.Context) {
	resp, err := s.teamSvc.ListClosers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
