package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
	"gorm.io/gorm"
)

type CreateOverrideRequest struct {
	SetterID  snowflake.ID
	Date      string
	StartTime string
	EndTime   string
}

type CreateWeeklyShiftRequest struct {
	SetterID  snowflake.ID
	DayOfWeek int
	StartTime string
	EndTime   string
}

// ResolutionDebug mirrors what the on-call page shows so schedule
// problems can be diagnosed from the response alone.
type ResolutionDebug struct {
	Timezone   string `json:"timezone"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	DayOfWeek  int    `json:"dayOfWeek"`
	ServerTime string `json:"serverTime"`
	MatchedBy  string `json:"matchedBy,omitempty"`
}

type Resolution struct {
	Setter *teamdomain.Setter `json:"setter"`
	Debug  ResolutionDebug    `json:"debug"`
}

type Service interface {
	// CurrentSetter resolves who is on shift right now, checking in
	// order: today's override, tomorrow's override (overnight),
	// today's weekly shift, yesterday's weekly shift (overnight).
	CurrentSetter(ctx context.Context) (Resolution, error)
	// ToggleShift flips the named setter's rotation toggle, or pins
	// it when active is non-nil. Returns the new state.
	ToggleShift(ctx context.Context, setterName string, active *bool) (ShiftToggle, error)

	CreateOverride(ctx context.Context, req CreateOverrideRequest) (ShiftOverride, error)
	ListOverrides(ctx context.Context) ([]ShiftOverride, error)
	DeleteOverride(ctx context.Context, id string) error
	CreateWeeklyShift(ctx context.Context, req CreateWeeklyShiftRequest) (WeeklyShift, error)
	ListWeeklyShifts(ctx context.Context) ([]WeeklyShift, error)
	DeleteWeeklyShift(ctx context.Context, id string) error
}

type Repository interface {
	InsertOverride(ctx context.Context, db *gorm.DB, row *ShiftOverride) error
	ListOverridesByDate(ctx context.Context, db *gorm.DB, date string) ([]*ShiftOverride, error)
	ListOverrides(ctx context.Context, db *gorm.DB) ([]*ShiftOverride, error)
	DeleteOverride(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertWeeklyShift(ctx context.Context, db *gorm.DB, row *WeeklyShift) error
	ListWeeklyShiftsByDay(ctx context.Context, db *gorm.DB, dayOfWeek int) ([]*WeeklyShift, error)
	ListWeeklyShifts(ctx context.Context, db *gorm.DB) ([]*WeeklyShift, error)
	DeleteWeeklyShift(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	FindToggle(ctx context.Context, db *gorm.DB, setterID snowflake.ID) (*ShiftToggle, error)
	SaveToggle(ctx context.Context, db *gorm.DB, toggle *ShiftToggle) error
}

var (
	ErrInvalidSetter = errors.New("invalid_setter")
	ErrInvalidDate   = errors.New("invalid_date")
	ErrInvalidTime   = errors.New("invalid_time")
	ErrInvalidDay    = errors.New("invalid_day")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
