package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/offer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, offer *domain.Offer) error {
	return db.WithContext(ctx).Create(offer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Offer, error) {
	var offer domain.Offer
	err := db.WithContext(ctx).First(&offer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, includeArchived bool) ([]*domain.Offer, error) {
	var offers []*domain.Offer
	stmt := db.WithContext(ctx).Model(&domain.Offer{})
	if !includeArchived {
		stmt = stmt.Where("archived = ?", false)
	}
	if err := stmt.Order("name asc").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repo) SetArchived(ctx context.Context, db *gorm.DB, id snowflake.ID, archived bool) error {
	return db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("id = ?", id).
		Update("archived", archived).Error
}
