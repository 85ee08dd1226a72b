package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Lead is a prospect captured from booking flows or messaging funnels.
// CustomerID links to the external Kajabi customer once a purchase
// webhook matches the email.
type Lead struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"not null" json:"name"`
	Email      string       `gorm:"index" json:"email"`
	Phone      string       `gorm:"index" json:"phone"`
	CustomerID *string      `gorm:"column:customer_id" json:"customer_id,omitempty"`
	ManyChatID *string      `gorm:"column:manychat_id" json:"manychat_id,omitempty"`
	Source     string       `json:"source,omitempty"`
	Medium     string       `json:"medium,omitempty"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null" json:"updated_at"`
}
