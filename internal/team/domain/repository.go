package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertSetter(ctx context.Context, db *gorm.DB, setter *Setter) error
	InsertCloser(ctx context.Context, db *gorm.DB, closer *Closer) error
	FindSetterByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Setter, error)
	FindCloserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Closer, error)
	FindSetterByName(ctx context.Context, db *gorm.DB, name string) (*Setter, error)
	ListSetters(ctx context.Context, db *gorm.DB) ([]*Setter, error)
	ListClosers(ctx context.Context, db *gorm.DB) ([]*Closer, error)
}
