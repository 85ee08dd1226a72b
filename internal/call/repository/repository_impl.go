package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/call/domain"
	"github.com/opsdesk/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, call *domain.Call) error {
	return db.WithContext(ctx).Create(call).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, call *domain.Call) error {
	return db.WithContext(ctx).Save(call).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Call, error) {
	var call domain.Call
	err := db.WithContext(ctx).First(&call, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Call, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var calls []*domain.Call
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&calls).Error; err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *repo) FindByCalendlyURI(ctx context.Context, db *gorm.DB, uri string) (*domain.Call, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, nil
	}
	var call domain.Call
	err := db.WithContext(ctx).
		Order("id desc").
		First(&call, "calendly_uri = ?", uri).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCallRequest, page pagination.Pagination) ([]*domain.Call, error) {
	var calls []*domain.Call
	stmt := db.WithContext(ctx).Model(&domain.Call{})
	if filter.SetterID != nil {
		stmt = stmt.Where("setter_id = ?", *filter.SetterID)
	}
	if filter.CloserID != nil {
		stmt = stmt.Where("closer_id = ?", *filter.CloserID)
	}
	if filter.LeadID != nil {
		stmt = stmt.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.BookDateFrom != nil {
		stmt = stmt.Where("book_date >= ?", *filter.BookDateFrom)
	}
	if filter.BookDateTo != nil {
		stmt = stmt.Where("book_date < ?", *filter.BookDateTo)
	}
	if filter.CallDateFrom != nil {
		stmt = stmt.Where("call_date >= ?", *filter.CallDateFrom)
	}
	if filter.CallDateTo != nil {
		stmt = stmt.Where("call_date < ?", *filter.CallDateTo)
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err == nil && cursor.ID != "" {
			stmt = stmt.Where("id < ?", cursor.ID)
		}
	}

	err := stmt.
		Order("id desc").
		Limit(limit + 1).
		Find(&calls).Error
	if err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *repo) ListByBookDate(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*domain.Call, error) {
	var calls []*domain.Call
	err := db.WithContext(ctx).
		Where("book_date >= ? AND book_date < ?", from, to).
		Find(&calls).Error
	if err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *repo) ListByCallDate(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*domain.Call, error) {
	var calls []*domain.Call
	err := db.WithContext(ctx).
		Where("call_date >= ? AND call_date < ?", from, to).
		Find(&calls).Error
	if err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *repo) SetOutcomeLogID(ctx context.Context, db *gorm.DB, callID, outcomeLogID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Call{}).
		Where("id = ?", callID).
		Update("outcome_log_id", outcomeLogID).Error
}

func (r *repo) SetPurchased(ctx context.Context, db *gorm.DB, callID snowflake.ID, purchased domain.TriState, purchasedAt *time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Call{}).
		Where("id = ?", callID).
		Updates(map[string]any{
			"purchased":    purchased,
			"purchased_at": purchasedAt,
		}).Error
}
