package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ShiftOverride assigns a setter to a specific date, taking precedence
// over the weekly schedule. Times are HH:MM in shift-local time; an
// overnight override (end <= start) is recorded under the date the
// shift ends.
type ShiftOverride struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SetterID  snowflake.ID `gorm:"not null;index" json:"setter_id"`
	Date      string       `gorm:"type:varchar(10);not null;index" json:"date"`
	StartTime string       `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string       `gorm:"type:varchar(5);not null" json:"end_time"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// WeeklyShift is the recurring schedule entry. DayOfWeek follows
// time.Weekday (0 = Sunday). An overnight shift (end <= start) is
// recorded under the day it starts.
type WeeklyShift struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SetterID  snowflake.ID `gorm:"not null;index" json:"setter_id"`
	DayOfWeek int          `gorm:"not null;index" json:"day_of_week"`
	StartTime string       `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime   string       `gorm:"type:varchar(5);not null" json:"end_time"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// ShiftToggle lets ops pull a setter out of rotation without touching
// the schedule. No gorm default on Active: a column default would make
// gorm omit a zero-value false from the INSERT, so toggling off could
// never persist.
type ShiftToggle struct {
	SetterID  snowflake.ID `gorm:"primaryKey" json:"setter_id"`
	Active    bool         `gorm:"not null" json:"active"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}
