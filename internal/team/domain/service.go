package domain

import (
	"context"
	"errors"
)

type CreateSetterRequest struct {
	Name      string
	DiscordID string
}

type CreateCloserRequest struct {
	Name string
}

type Service interface {
	CreateSetter(ctx context.Context, req CreateSetterRequest) (Setter, error)
	CreateCloser(ctx context.Context, req CreateCloserRequest) (Closer, error)
	GetSetter(ctx context.Context, id string) (Setter, error)
	GetCloser(ctx context.Context, id string) (Closer, error)
	ListSetters(ctx context.Context) ([]Setter, error)
	ListClosers(ctx context.Context) ([]Closer, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
