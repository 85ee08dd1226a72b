package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/offer/domain"
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
		log:   p.Log.Named("offer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOfferRequest) (domain.Offer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Offer{}, domain.ErrInvalidName
	}
	if req.BaseCommission < 0 || req.PIFCommission < 0 {
		return domain.Offer{}, domain.ErrInvalidCommission
	}

	offer := domain.Offer{
		ID:             s.genID.Generate(),
		Name:           name,
		BaseCommission: req.BaseCommission,
		PIFCommission:  req.PIFCommission,
	}
	if err := s.repo.Insert(ctx, s.db, &offer); err != nil {
		return domain.Offer{}, err
	}
	return offer, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Offer, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Offer{}, err
	}
	offer, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Offer{}, err
	}
	if offer == nil {
		return domain.Offer{}, domain.ErrNotFound
	}
	return *offer, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Offer, error) {
	items, err := s.repo.List(ctx, s.db, false)
	if err != nil {
		return nil, err
	}
	offers := make([]domain.Offer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		offers = append(offers, *item)
	}
	return offers, nil
}

func (s *Service) Archive(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}
	offer, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return err
	}
	if offer == nil {
		return domain.ErrNotFound
	}
	return s.repo.SetArchived(ctx, s.db, parsed, true)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
