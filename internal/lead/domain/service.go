package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type CreateLeadRequest struct {
	Name   string
	Email  string
	Phone  string
	Source string
	Medium string
}

// UpsertLeadRequest matches by email first, then phone; blank fields on
// the incoming payload never clobber existing values.
type UpsertLeadRequest struct {
	Name       string
	Email      string
	Phone      string
	Source     string
	Medium     string
	ManyChatID string
}

type ListLeadRequest struct {
	PageToken   string
	PageSize    int
	Email       string
	Phone       string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListLeadResponse struct {
	pagination.PageInfo
	Leads []Lead `json:"leads"`
}

type Service interface {
	Create(ctx context.Context, req CreateLeadRequest) (Lead, error)
	Upsert(ctx context.Context, req UpsertLeadRequest) (Lead, error)
	GetByID(ctx context.Context, id string) (Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	FindByPhone(ctx context.Context, phone string) (*Lead, error)
	SetCustomerID(ctx context.Context, leadID snowflake.ID, customerID string) error
	List(ctx context.Context, req ListLeadRequest) (ListLeadResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, lead *Lead) error
	Update(ctx context.Context, db *gorm.DB, lead *Lead) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Lead, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Lead, error)
	FindByPhone(ctx context.Context, db *gorm.DB, phone string) (*Lead, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Lead, error)
	List(ctx context.Context, db *gorm.DB, filter ListLeadRequest, page pagination.Pagination) ([]*Lead, error)
}

var (
	ErrInvalidContact = errors.New("invalid_contact")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
