package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Call is a scheduled sales call. Status flags are tri-state: the
// setter/closer fills them in over the call's lifecycle and "tbd"
// means not decided yet. A call is mutated in place, never replaced.
type Call struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	LeadID       snowflake.ID  `gorm:"not null;index" json:"lead_id"`
	SetterID     *snowflake.ID `gorm:"index" json:"setter_id,omitempty"`
	CloserID     *snowflake.ID `gorm:"index" json:"closer_id,omitempty"`
	BookDate     time.Time     `gorm:"not null;index" json:"book_date"`
	CallDate     time.Time     `gorm:"not null;index" json:"call_date"`
	PickedUp     TriState      `gorm:"type:varchar(8);not null;default:'tbd'" json:"picked_up"`
	Confirmed    TriState      `gorm:"type:varchar(8);not null;default:'tbd'" json:"confirmed"`
	ShowedUp     TriState      `gorm:"type:varchar(8);not null;default:'tbd'" json:"showed_up"`
	Purchased    TriState      `gorm:"type:varchar(8);not null;default:'tbd'" json:"purchased"`
	PurchasedAt  *time.Time    `json:"purchased_at,omitempty"`
	SourceType   string        `gorm:"index" json:"source_type"`
	Medium       string        `json:"medium,omitempty"`
	IsReschedule bool          `gorm:"not null;default:false" json:"is_reschedule"`
	CalendlyURI  string        `gorm:"column:calendly_uri;index" json:"calendly_uri,omitempty"`
	OutcomeLogID *snowflake.ID `gorm:"column:outcome_log_id" json:"outcome_log_id,omitempty"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`
}

// IsAds reports whether the call came from paid traffic. The business
// stores free-form source labels; anything mentioning "ad" counts.
func (c Call) IsAds() bool {
	return strings.Contains(strings.ToLower(c.SourceType), "ad")
}
