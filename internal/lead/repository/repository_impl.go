package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/lead/domain"
	"github.com/opsdesk/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Create(lead).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Save(lead).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Lead, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var lead domain.Lead
	err := db.WithContext(ctx).
		Order("id desc").
		First(&lead, "lower(email) = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repo) FindByPhone(ctx context.Context, db *gorm.DB, phone string) (*domain.Lead, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	var lead domain.Lead
	err := db.WithContext(ctx).
		Order("id desc").
		First(&lead, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Lead, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var leads []*domain.Lead
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListLeadRequest, page pagination.Pagination) ([]*domain.Lead, error) {
	var leads []*domain.Lead
	stmt := db.WithContext(ctx).Model(&domain.Lead{})
	if email := strings.TrimSpace(filter.Email); email != "" {
		stmt = stmt.Where("lower(email) = lower(?)", email)
	}
	if phone := strings.TrimSpace(filter.Phone); phone != "" {
		stmt = stmt.Where("phone = ?", phone)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
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
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
