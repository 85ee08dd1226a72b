package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/team/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertSetter(ctx context.Context, db *gorm.DB, setter *domain.Setter) error {
	return db.WithContext(ctx).Create(setter).Error
}

func (r *repo) InsertCloser(ctx context.Context, db *gorm.DB, closer *domain.Closer) error {
	return db.WithContext(ctx).Create(closer).Error
}

func (r *repo) FindSetterByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Setter, error) {
	var setter domain.Setter
	err := db.WithContext(ctx).First(&setter, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setter, nil
}

func (r *repo) FindCloserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Closer, error) {
	var closer domain.Closer
	err := db.WithContext(ctx).First(&closer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &closer, nil
}

func (r *repo) FindSetterByName(ctx context.Context, db *gorm.DB, name string) (*domain.Setter, error) {
	var setter domain.Setter
	err := db.WithContext(ctx).First(&setter, "lower(name) = lower(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setter, nil
}

func (r *repo) ListSetters(ctx context.Context, db *gorm.DB) ([]*domain.Setter, error) {
	var setters []*domain.Setter
	if err := db.WithContext(ctx).Order("name asc").Find(&setters).Error; err != nil {
		return nil, err
	}
	return setters, nil
}

func (r *repo) ListClosers(ctx context.Context, db *gorm.DB) ([]*domain.Closer, error) {
	var closers []*domain.Closer
	if err := db.WithContext(ctx).Order("name asc").Find(&closers).Error; err != nil {
		return nil, err
	}
	return closers, nil
}
