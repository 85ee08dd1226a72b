package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CurrentSetter keeps the exact response shape the chat automations
// consume: setter is null when nobody is on shift, and debug carries
// the resolution trail.
func (s *Server) CurrentSetter(c *gin.Context) {
	resolution, err := s.shiftSvc.CurrentSetter(c.Request.Context())
	if err != nil {
		apiFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"setter":  resolution.Setter,
		"debug":   resolution.Debug,
	})
}

type shiftToggleRequest struct {
	SetterName string `json:"setterName"`
	Active     *bool  `json:"active"`
}

func (s *Server) ShiftToggle(c *gin.Context) {
	var req shiftToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if strings.TrimSpace(req.SetterName) == "" {
		apiError(c, http.StatusBadRequest, "setterName is required", nil)
		return
	}

	toggle, err := s.shiftSvc.ToggleShift(c.Request.Context(), strings.TrimSpace(req.SetterName), req.Active)
	if err != nil {
		apiFail(c, err)
		return
	}

	apiOK(c, toggle)
}
