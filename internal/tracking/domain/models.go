package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ClickTracking links a Meta ad click to the Calendly event it booked,
// so conversions can be attributed later.
type ClickTracking struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	FBCLID           string       `gorm:"column:fbclid;not null;index" json:"fbclid"`
	CalendlyEventURI string       `gorm:"column:calendly_event_uri" json:"calendly_event_uri,omitempty"`
	IPAddress        string       `gorm:"column:ip_address" json:"ip_address,omitempty"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
}

func (ClickTracking) TableName() string { return "click_tracking" }

// WebhookEvent is the raw audit row written for every inbound webhook
// before any domain processing happens.
type WebhookEvent struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	Provider  string         `gorm:"not null;index" json:"provider"`
	EventType string         `gorm:"not null" json:"event_type"`
	Payload   datatypes.JSON `json:"payload,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}
