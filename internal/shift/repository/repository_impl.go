package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/shift/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertOverride(ctx context.Context, db *gorm.DB, row *domain.ShiftOverride) error {
	return db.WithContext(ctx).Create(row).Error
}

func (r *repo) ListOverridesByDate(ctx context.Context, db *gorm.DB, date string) ([]*domain.ShiftOverride, error) {
	var rows []*domain.ShiftOverride
	err := db.WithContext(ctx).
		Where("date = ?", date).
		Order("id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListOverrides(ctx context.Context, db *gorm.DB) ([]*domain.ShiftOverride, error) {
	var rows []*domain.ShiftOverride
	if err := db.WithContext(ctx).Order("date, start_time").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) DeleteOverride(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	res := db.WithContext(ctx).Delete(&domain.ShiftOverride{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) InsertWeeklyShift(ctx context.Context, db *gorm.DB, row *domain.WeeklyShift) error {
	return db.WithContext(ctx).Create(row).Error
}

func (r *repo) ListWeeklyShiftsByDay(ctx context.Context, db *gorm.DB, dayOfWeek int) ([]*domain.WeeklyShift, error) {
	var rows []*domain.WeeklyShift
	err := db.WithContext(ctx).
		Where("day_of_week = ?", dayOfWeek).
		Order("id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListWeeklyShifts(ctx context.Context, db *gorm.DB) ([]*domain.WeeklyShift, error) {
	var rows []*domain.WeeklyShift
	if err := db.WithContext(ctx).Order("day_of_week, start_time").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) DeleteWeeklyShift(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	res := db.WithContext(ctx).Delete(&domain.WeeklyShift{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) FindToggle(ctx context.Context, db *gorm.DB, setterID snowflake.ID) (*domain.ShiftToggle, error) {
	var toggle domain.ShiftToggle
	err := db.WithContext(ctx).First(&toggle, "setter_id = ?", setterID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &toggle, nil
}

func (r *repo) SaveToggle(ctx context.Context, db *gorm.DB, toggle *domain.ShiftToggle) error {
	return db.WithContext(ctx).Save(toggle).Error
}
