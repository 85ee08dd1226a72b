package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateOfferRequest struct {
	Name           string
	BaseCommission float64
	PIFCommission  float64
}

type Service interface {
	Create(ctx context.Context, req CreateOfferRequest) (Offer, error)
	GetByID(ctx context.Context, id string) (Offer, error)
	List(ctx context.Context) ([]Offer, error)
	Archive(ctx context.Context, id string) error
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, offer *Offer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Offer, error)
	List(ctx context.Context, db *gorm.DB, includeArchived bool) ([]*Offer, error)
	SetArchived(ctx context.Context, db *gorm.DB, id snowflake.ID, archived bool) error
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidCommission = errors.New("invalid_commission")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
)
