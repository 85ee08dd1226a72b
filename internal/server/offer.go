package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	offerdomain "github.com/opsdesk/salesdesk/internal/offer/domain"
)

type createOfferRequest struct {
	Name           string  `json:"name"`
	BaseCommission float64 `json:"base_commission"`
	PIFCommission  float64 `json:"pif_commission"`
}

func (s *Server) CreateOffer(c *gin.Context) {
	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.offerSvc.Create(c.Request.Context(), offerdomain.CreateOfferRequest{
		Name:           strings.TrimSpace(req.Name),
		BaseCommission: req.BaseCommission,
		PIFCommission:  req.PIFCommission,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOffers(c *gin.Context) {
	resp, err := s.offerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ArchiveOffer soft-deletes; archived offers stay resolvable for
// historical commission rows.
func (s *Server) ArchiveOffer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.offerSvc.Archive(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"archived": true}})
}
