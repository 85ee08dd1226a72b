package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/lead/domain"
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
		log:   p.Log.Named("lead.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLeadRequest) (domain.Lead, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	if email == "" && phone == "" {
		return domain.Lead{}, domain.ErrInvalidContact
	}

	lead := domain.Lead{
		ID:     s.genID.Generate(),
		Name:   strings.TrimSpace(req.Name),
		Email:  email,
		Phone:  phone,
		Source: strings.TrimSpace(req.Source),
		Medium: strings.TrimSpace(req.Medium),
	}
	if err := s.repo.Insert(ctx, s.db, &lead); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

// Upsert matches an inbound contact to an existing lead by email, then
// phone, creating one when nothing matches. Incoming blank fields never
// overwrite stored values.
func (s *Service) Upsert(ctx context.Context, req domain.UpsertLeadRequest) (domain.Lead, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	if email == "" && phone == "" {
		return domain.Lead{}, domain.ErrInvalidContact
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.Lead{}, err
	}
	if existing == nil {
		existing, err = s.repo.FindByPhone(ctx, s.db, phone)
		if err != nil {
			return domain.Lead{}, err
		}
	}

	if existing == nil {
		created, err := s.Create(ctx, domain.CreateLeadRequest{
			Name:   req.Name,
			Email:  email,
			Phone:  phone,
			Source: req.Source,
			Medium: req.Medium,
		})
		if err != nil {
			return domain.Lead{}, err
		}
		if mc := strings.TrimSpace(req.ManyChatID); mc != "" {
			created.ManyChatID = &mc
			if err := s.repo.Update(ctx, s.db, &created); err != nil {
				return domain.Lead{}, err
			}
		}
		return created, nil
	}

	changed := false
	if name := strings.TrimSpace(req.Name); name != "" && existing.Name != name {
		existing.Name = name
		changed = true
	}
	if email != "" && existing.Email == "" {
		existing.Email = email
		changed = true
	}
	if phone != "" && existing.Phone == "" {
		existing.Phone = phone
		changed = true
	}
	if source := strings.TrimSpace(req.Source); source != "" && existing.Source == "" {
		existing.Source = source
		changed = true
	}
	if medium := strings.TrimSpace(req.Medium); medium != "" && existing.Medium == "" {
		existing.Medium = medium
		changed = true
	}
	if mc := strings.TrimSpace(req.ManyChatID); mc != "" && existing.ManyChatID == nil {
		existing.ManyChatID = &mc
		changed = true
	}

	if changed {
		existing.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, s.db, existing); err != nil {
			return domain.Lead{}, err
		}
	}
	return *existing, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Lead, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Lead{}, err
	}
	lead, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Lead{}, err
	}
	if lead == nil {
		return domain.Lead{}, domain.ErrNotFound
	}
	return *lead, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*domain.Lead, error) {
	return s.repo.FindByEmail(ctx, s.db, email)
}

func (s *Service) FindByPhone(ctx context.Context, phone string) (*domain.Lead, error) {
	return s.repo.FindByPhone(ctx, s.db, phone)
}

func (s *Service) SetCustomerID(ctx context.Context, leadID snowflake.ID, customerID string) error {
	lead, err := s.repo.FindByID(ctx, s.db, leadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return domain.ErrNotFound
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil
	}
	lead.CustomerID = &customerID
	lead.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, lead)
}

func (s *Service) List(ctx context.Context, req domain.ListLeadRequest) (domain.ListLeadResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, req, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListLeadResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(lead *domain.Lead) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        lead.ID.String(),
			CreatedAt: lead.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	leads := make([]domain.Lead, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		leads = append(leads, *item)
	}

	resp := domain.ListLeadResponse{Leads: leads}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
