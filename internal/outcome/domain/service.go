package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// SaveOutcomeRequest carries the closer's submission for a call. A
// save replaces the whole row: nil optional fields clear the stored
// value, so every submission must carry the full outcome.
type SaveOutcomeRequest struct {
	CallID                snowflake.ID
	CloserID              *snowflake.ID
	Outcome               Outcome
	OfferID               *snowflake.ID
	Discount              *float64
	PurchaseDate          *time.Time
	RefundDate            *time.Time
	Clawback              *float64
	PIF                   bool
	PaidSecondInstallment bool
	Notes                 string
}

type ListOutcomeRequest struct {
	CloserID         *snowflake.ID
	PurchaseDateFrom *time.Time
	PurchaseDateTo   *time.Time
}

type Service interface {
	// SaveOutcome creates or updates the single outcome row for a
	// call and syncs the call's purchased status.
	SaveOutcome(ctx context.Context, req SaveOutcomeRequest) (OutcomeLog, error)
	GetByCall(ctx context.Context, callID snowflake.ID) (*OutcomeLog, error)
	List(ctx context.Context, req ListOutcomeRequest) ([]OutcomeLog, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, row *OutcomeLog) error
	Update(ctx context.Context, db *gorm.DB, row *OutcomeLog) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*OutcomeLog, error)
	// FindLatestByCall returns the max-id row for the call, or nil.
	FindLatestByCall(ctx context.Context, db *gorm.DB, callID snowflake.ID) (*OutcomeLog, error)
	List(ctx context.Context, db *gorm.DB, filter ListOutcomeRequest) ([]*OutcomeLog, error)
	// ListByPurchaseDate returns rows whose purchase_date falls in
	// the half-open window [from, to).
	ListByPurchaseDate(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*OutcomeLog, error)
}

var (
	ErrInvalidCall    = errors.New("invalid_call")
	ErrInvalidOutcome = errors.New("invalid_outcome")
	ErrCallNotFound   = errors.New("call_not_found")
	ErrOfferNotFound  = errors.New("offer_not_found")
)
