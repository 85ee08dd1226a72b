package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Outcome is the closer's decision for a call.
type Outcome string

const (
	OutcomeYes      Outcome = "yes"
	OutcomeNo       Outcome = "no"
	OutcomeLockIn   Outcome = "lock_in"
	OutcomeFollowUp Outcome = "follow_up"
	OutcomeRefund   Outcome = "refund"
)

func ParseOutcome(value string) (Outcome, bool) {
	switch Outcome(strings.ToLower(strings.TrimSpace(value))) {
	case OutcomeYes:
		return OutcomeYes, true
	case OutcomeNo:
		return OutcomeNo, true
	case OutcomeLockIn:
		return OutcomeLockIn, true
	case OutcomeFollowUp:
		return OutcomeFollowUp, true
	case OutcomeRefund:
		return OutcomeRefund, true
	default:
		return "", false
	}
}

// OutcomeLog records the closer's outcome for a call. At most one
// authoritative row should exist per call; that is enforced by the
// save path, not the schema, so every read dedups by max id.
type OutcomeLog struct {
	ID                    snowflake.ID  `gorm:"primaryKey" json:"id"`
	CallID                snowflake.ID  `gorm:"not null;index" json:"call_id"`
	CloserID              *snowflake.ID `gorm:"index" json:"closer_id,omitempty"`
	Outcome               Outcome       `gorm:"type:varchar(16);not null" json:"outcome"`
	OfferID               *snowflake.ID `json:"offer_id,omitempty"`
	Discount              *float64      `json:"discount,omitempty"`
	Commission            *float64      `json:"commission,omitempty"`
	PurchaseDate          *time.Time    `gorm:"index" json:"purchase_date,omitempty"`
	RefundDate            *time.Time    `json:"refund_date,omitempty"`
	Clawback              *float64      `json:"clawback,omitempty"`
	PIF                   bool          `gorm:"column:pif;not null;default:false" json:"pif"`
	PaidSecondInstallment bool          `gorm:"not null;default:false" json:"paid_second_installment"`
	Notes                 string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt             time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"not null" json:"updated_at"`
}

// ClawbackOrDefault returns the clawback percentage, defaulting to a
// full 100% clawback when the row predates the field.
func (o OutcomeLog) ClawbackOrDefault() float64 {
	if o.Clawback == nil {
		return 100
	}
	return *o.Clawback
}

// CountsAsSale reports whether the row contributes to sales totals: a
// yes always does, and a refund does only when its clawback is partial
// (the business keeps the residual commission, so the sale still
// counts net).
func (o OutcomeLog) CountsAsSale() bool {
	switch o.Outcome {
	case OutcomeYes:
		return true
	case OutcomeRefund:
		return o.ClawbackOrDefault() < 100
	default:
		return false
	}
}
