package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/tracking/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tracking.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) StoreClick(ctx context.Context, req domain.StoreClickRequest) (domain.ClickTracking, error) {
	fbclid := strings.TrimSpace(req.FBCLID)
	if fbclid == "" {
		return domain.ClickTracking{}, domain.ErrMissingFBCLID
	}

	row := domain.ClickTracking{
		ID:               s.genID.Generate(),
		FBCLID:           fbclid,
		CalendlyEventURI: strings.TrimSpace(req.CalendlyEventURI),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		CreatedAt:        s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.ClickTracking{}, err
	}
	return row, nil
}

func (s *Service) RecordEvent(ctx context.Context, req domain.RecordEventRequest) (domain.WebhookEvent, error) {
	row := domain.WebhookEvent{
		ID:        s.genID.Generate(),
		Provider:  strings.TrimSpace(req.Provider),
		EventType: strings.TrimSpace(req.EventType),
		CreatedAt: s.clock.Now(),
	}
	if len(req.Payload) > 0 {
		row.Payload = datatypes.JSON(req.Payload)
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.Warn("webhook event write failed",
			zap.String("provider", row.Provider),
			zap.String("event_type", row.EventType),
			zap.Error(err),
		)
		return domain.WebhookEvent{}, err
	}
	return row, nil
}

func (s *Service) ListEvents(ctx context.Context, provider string, limit int) ([]domain.WebhookEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	stmt := s.db.WithContext(ctx).Model(&domain.WebhookEvent{})
	if provider = strings.TrimSpace(provider); provider != "" {
		stmt = stmt.Where("provider = ?", provider)
	}

	var rows []domain.WebhookEvent
	if err := stmt.Order("id desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
