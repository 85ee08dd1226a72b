package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Setter books and qualifies sales calls.
type Setter struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;index" json:"name"`
	DiscordID string       `gorm:"column:discord_id" json:"discord_id,omitempty"`
	Active    bool         `gorm:"not null" json:"active"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// Closer conducts the sales call and records its outcome.
type Closer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;index" json:"name"`
	Active    bool         `gorm:"not null" json:"active"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}
