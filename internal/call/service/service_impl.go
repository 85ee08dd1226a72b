package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/call/domain"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("call.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCallRequest) (domain.Call, error) {
	if req.LeadID == 0 {
		return domain.Call{}, domain.ErrInvalidLead
	}
	if req.BookDate.IsZero() || req.CallDate.IsZero() {
		return domain.Call{}, domain.ErrInvalidDates
	}

	call := domain.Call{
		ID:           s.genID.Generate(),
		LeadID:       req.LeadID,
		SetterID:     req.SetterID,
		CloserID:     req.CloserID,
		BookDate:     req.BookDate.UTC(),
		CallDate:     req.CallDate.UTC(),
		PickedUp:     domain.TriTBD,
		Confirmed:    domain.TriTBD,
		ShowedUp:     domain.TriTBD,
		Purchased:    domain.TriTBD,
		SourceType:   strings.TrimSpace(req.SourceType),
		Medium:       strings.TrimSpace(req.Medium),
		IsReschedule: req.IsReschedule,
		CalendlyURI:  strings.TrimSpace(req.CalendlyURI),
	}
	if err := s.repo.Insert(ctx, s.db, &call); err != nil {
		return domain.Call{}, err
	}
	return call, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Call, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Call{}, err
	}
	call, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Call{}, err
	}
	if call == nil {
		return domain.Call{}, domain.ErrNotFound
	}
	return *call, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateCallRequest) (domain.Call, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Call{}, err
	}
	call, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Call{}, err
	}
	if call == nil {
		return domain.Call{}, domain.ErrNotFound
	}

	if req.SetterID != nil {
		call.SetterID = req.SetterID
	}
	if req.CloserID != nil {
		call.CloserID = req.CloserID
	}
	if req.CallDate != nil {
		call.CallDate = req.CallDate.UTC()
	}
	if req.PickedUp != nil {
		call.PickedUp = domain.ParseTriState(*req.PickedUp)
	}
	if req.Confirmed != nil {
		call.Confirmed = domain.ParseTriState(*req.Confirmed)
	}
	if req.ShowedUp != nil {
		call.ShowedUp = domain.ParseTriState(*req.ShowedUp)
	}
	call.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, call); err != nil {
		return domain.Call{}, err
	}
	return *call, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCallRequest) (domain.ListCallResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, req, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListCallResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(call *domain.Call) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        call.ID.String(),
			CreatedAt: call.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	calls := make([]domain.Call, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		calls = append(calls, *item)
	}

	resp := domain.ListCallResponse{Calls: calls}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) FindByCalendlyURI(ctx context.Context, uri string) (*domain.Call, error) {
	return s.repo.FindByCalendlyURI(ctx, s.db, uri)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
