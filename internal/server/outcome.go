package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	outcomedomain "github.com/opsdesk/salesdesk/internal/outcome/domain"
)

type saveOutcomeRequest struct {
	CallID                string     `json:"call_id"`
	CloserID              string     `json:"closer_id"`
	Outcome               string     `json:"outcome"`
	OfferID               string     `json:"offer_id"`
	Discount              *float64   `json:"discount"`
	PurchaseDate          *time.Time `json:"purchase_date"`
	RefundDate            *time.Time `json:"refund_date"`
	Clawback              *float64   `json:"clawback"`
	PIF                   bool       `json:"pif"`
	PaidSecondInstallment bool       `json:"paid_second_installment"`
	Notes                 string     `json:"notes"`
}

func (s *Server) SaveOutcome(c *gin.Context) {
	var req saveOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	callID, err := snowflake.ParseString(strings.TrimSpace(req.CallID))
	if err != nil || callID == 0 {
		AbortWithError(c, newValidationError("call_id", "invalid_call", "invalid call_id"))
		return
	}

	closerID, err := parseOptionalSnowflakeID(req.CloserID)
	if err != nil {
		AbortWithError(c, newValidationError("closer_id", "invalid_closer_id", "invalid closer_id"))
		return
	}

	offerID, err := parseOptionalSnowflakeID(req.OfferID)
	if err != nil {
		AbortWithError(c, newValidationError("offer_id", "invalid_offer_id", "invalid offer_id"))
		return
	}

	outcome, ok := outcomedomain.ParseOutcome(req.Outcome)
	if !ok {
		AbortWithError(c, newValidationError("outcome", "invalid_outcome", "invalid outcome"))
		return
	}

	resp, err := s.outcomeSvc.SaveOutcome(c.Request.Context(), outcomedomain.SaveOutcomeRequest{
		CallID:                callID,
		CloserID:              closerID,
		Outcome:               outcome,
		OfferID:               offerID,
		Discount:              req.Discount,
		PurchaseDate:          req.PurchaseDate,
		RefundDate:            req.RefundDate,
		Clawback:              req.Clawback,
		PIF:                   req.PIF,
		PaidSecondInstallment: req.PaidSecondInstallment,
		Notes:                 strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOutcomes(c *gin.Context) {
	var query struct {
		CloserID         string `form:"closer_id"`
		PurchaseDateFrom string `form:"purchase_date_from"`
		PurchaseDateTo   string `form:"purchase_date_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	closerID, err := parseOptionalSnowflakeID(query.CloserID)
	if err != nil {
		AbortWithError(c, newValidationError("closer_id", "invalid_closer_id", "invalid closer_id"))
		return
	}

	from, err := parseOptionalTime(query.PurchaseDateFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("purchase_date_from", "invalid_purchase_date_from", "invalid purchase_date_from"))
		return
	}

	to, err := parseOptionalTime(query.PurchaseDateTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("purchase_date_to", "invalid_purchase_date_to", "invalid purchase_date_to"))
		return
	}

	resp, err := s.outcomeSvc.List(c.Request.Context(), outcomedomain.ListOutcomeRequest{
		CloserID:         closerID,
		PurchaseDateFrom: from,
		PurchaseDateTo:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
