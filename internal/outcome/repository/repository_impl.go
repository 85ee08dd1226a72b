package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/outcome/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, row *domain.OutcomeLog) error {
	return db.WithContext(ctx).Create(row).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, row *domain.OutcomeLog) error {
	return db.WithContext(ctx).Save(row).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.OutcomeLog, error) {
	var row domain.OutcomeLog
	err := db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repo) FindLatestByCall(ctx context.Context, db *gorm.DB, callID snowflake.ID) (*domain.OutcomeLog, error) {
	var row domain.OutcomeLog
	err := db.WithContext(ctx).
		Order("id desc").
		First(&row, "call_id = ?", callID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListOutcomeRequest) ([]*domain.OutcomeLog, error) {
	stmt := db.WithContext(ctx).Model(&domain.OutcomeLog{})
	if filter.CloserID != nil {
		stmt = stmt.Where("closer_id = ?", *filter.CloserID)
	}
	if filter.PurchaseDateFrom != nil {
		stmt = stmt.Where("purchase_date >= ?", *filter.PurchaseDateFrom)
	}
	if filter.PurchaseDateTo != nil {
		stmt = stmt.Where("purchase_date < ?", *filter.PurchaseDateTo)
	}

	var rows []*domain.OutcomeLog
	if err := stmt.Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListByPurchaseDate(ctx context.Context, db *gorm.DB, from, to time.Time) ([]*domain.OutcomeLog, error) {
	var rows []*domain.OutcomeLog
	err := db.WithContext(ctx).
		Where("purchase_date >= ? AND purchase_date < ?", from, to).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
