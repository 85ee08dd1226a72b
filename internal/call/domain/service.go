package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type CreateCallRequest struct {
	LeadID       snowflake.ID
	SetterID     *snowflake.ID
	CloserID     *snowflake.ID
	BookDate     time.Time
	CallDate     time.Time
	SourceType   string
	Medium       string
	IsReschedule bool
	CalendlyURI  string
}

// UpdateCallRequest carries partial status updates; nil pointers leave
// the stored value untouched.
type UpdateCallRequest struct {
	SetterID  *snowflake.ID
	CloserID  *snowflake.ID
	CallDate  *time.Time
	PickedUp  *TriState
	Confirmed *TriState
	ShowedUp  *TriState
}

type ListCallRequest struct {
	PageToken    string
	PageSize     int
	SetterID     *snowflake.ID
	CloserID     *snowflake.ID
	LeadID       *snowflake.ID
	BookDateFrom *time.Time
	BookDateTo   *time.Time
	CallDateFrom *time.Time
	CallDateTo   *time.Time
}

type ListCallResponse struct {
	pagination.PageInfo
	Calls []Call `json:"calls"`
}

type Service interface {
	Create(ctx context.Context, req CreateCallRequest) (Call, error)
	GetByID(ctx context.Context, id string) (Call, error)
	Update(ctx context.Context, id string, req UpdateCallRequest) (Call, error)
	List(ctx context.Context, req ListCallRequest) (ListCallResponse, error)
	FindByCalendlyURI(ctx context.Context, uri string) (*Call, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, call *Call) error
	Update(ctx context.Context, db *gorm.DB, call *Call) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Call, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Call, error)
	FindByCalendlyURI(ctx context.Context, db *gorm.DB, uri string) (*Call, error)
	List(ctx context.Context, db *gorm.DB, filter ListCallRequest, page pagination.Pagination) ([]*Call, error)
	ListByBookDate(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*Call, error)
	ListByCallDate(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*Call, error)
	SetOutcomeLogID(ctx context.Context, db *gorm.DB, callID, outcomeLogID snowflake.ID) error
	SetPurchased(ctx context.Context, db *gorm.DB, callID snowflake.ID, purchased TriState, purchasedAt *time.Time) error
}

var (
	ErrInvalidLead  = errors.New("invalid_lead")
	ErrInvalidDates = errors.New("invalid_dates")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
