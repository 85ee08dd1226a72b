package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/team/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("team.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateSetter(ctx context.Context, req domain.CreateSetterRequest) (domain.Setter, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Setter{}, domain.ErrInvalidName
	}

	setter := domain.Setter{
		ID:        s.genID.Generate(),
		Name:      name,
		DiscordID: strings.TrimSpace(req.DiscordID),
		Active:    true,
	}
	if err := s.repo.InsertSetter(ctx, s.db, &setter); err != nil {
		return domain.Setter{}, err
	}
	return setter, nil
}

func (s *Service) CreateCloser(ctx context.Context, req domain.CreateCloserRequest) (domain.Closer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Closer{}, domain.ErrInvalidName
	}

	closer := domain.Closer{
		ID:     s.genID.Generate(),
		Name:   name,
		Active: true,
	}
	if err := s.repo.InsertCloser(ctx, s.db, &closer); err != nil {
		return domain.Closer{}, err
	}
	return closer, nil
}

func (s *Service) GetSetter(ctx context.Context, id string) (domain.Setter, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Setter{}, err
	}
	setter, err := s.repo.FindSetterByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Setter{}, err
	}
	if setter == nil {
		return domain.Setter{}, domain.ErrNotFound
	}
	return *setter, nil
}

func (s *Service) GetCloser(ctx context.Context, id string) (domain.Closer, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Closer{}, err
	}
	closer, err := s.repo.FindCloserByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Closer{}, err
	}
	if closer == nil {
		return domain.Closer{}, domain.ErrNotFound
	}
	return *closer, nil
}

func (s *Service) ListSetters(ctx context.Context) ([]domain.Setter, error) {
	items, err := s.repo.ListSetters(ctx, s.db)
	if err != nil {
		return nil, err
	}
	setters := make([]domain.Setter, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		setters = append(setters, *item)
	}
	return setters, nil
}

func (s *Service) ListClosers(ctx context.Context) ([]domain.Closer, error) {
	items, err := s.repo.ListClosers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	closers := make([]domain.Closer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		closers = append(closers, *item)
	}
	return closers, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
