package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Offer is a sellable program with its commission terms. Commission
// amounts are whole-currency values, matching how the business
// records them.
type Offer struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"not null" json:"name"`
	BaseCommission float64      `gorm:"not null;default:0" json:"base_commission"`
	PIFCommission  float64      `gorm:"column:pif_commission;not null;default:0" json:"pif_commission"`
	Archived       bool         `gorm:"not null;default:false" json:"archived"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updated_at"`
}
