package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	"github.com/opsdesk/salesdesk/internal/clock"
	offerdomain "github.com/opsdesk/salesdesk/internal/offer/domain"
	"github.com/opsdesk/salesdesk/internal/outcome/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	CallRepo  calldomain.Repository
	OfferRepo offerdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	callRepo  calldomain.Repository
	offerRepo offerdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("outcome.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		callRepo:  p.CallRepo,
		offerRepo: p.OfferRepo,
	}
}

func (s *Service) SaveOutcome(ctx context.Context, req domain.SaveOutcomeRequest) (domain.OutcomeLog, error) {
	if req.CallID == 0 {
		return domain.OutcomeLog{}, domain.ErrInvalidCall
	}
	outcome, ok := domain.ParseOutcome(string(req.Outcome))
	if !ok {
		return domain.OutcomeLog{}, domain.ErrInvalidOutcome
	}

	call, err := s.callRepo.FindByID(ctx, s.db, req.CallID)
	if err != nil {
		return domain.OutcomeLog{}, err
	}
	if call == nil {
		return domain.OutcomeLog{}, domain.ErrCallNotFound
	}

	commissionIn := domain.CommissionInput{
		Outcome:      outcome,
		PIF:          req.PIF,
		Discount:     req.Discount,
		Clawback:     req.Clawback,
		PurchaseDate: req.PurchaseDate,
		RefundDate:   req.RefundDate,
	}
	if req.OfferID != nil {
		offer, err := s.offerRepo.FindByID(ctx, s.db, *req.OfferID)
		if err != nil {
			return domain.OutcomeLog{}, err
		}
		if offer == nil {
			return domain.OutcomeLog{}, domain.ErrOfferNotFound
		}
		commissionIn.HasOffer = true
		commissionIn.BaseCommission = offer.BaseCommission
		commissionIn.PIFCommission = offer.PIFCommission
	}
	commission := domain.ComputeCommission(commissionIn)

	row, err := s.existingRow(ctx, call)
	if err != nil {
		return domain.OutcomeLog{}, err
	}

	now := s.clock.Now()
	if row == nil {
		row = &domain.OutcomeLog{
			ID:        s.genID.Generate(),
			CallID:    call.ID,
			CreatedAt: now,
		}
		applyRequest(row, req, outcome, commission, now)
		if err := s.repo.Insert(ctx, s.db, row); err != nil {
			return domain.OutcomeLog{}, err
		}
	} else {
		applyRequest(row, req, outcome, commission, now)
		if err := s.repo.Update(ctx, s.db, row); err != nil {
			return domain.OutcomeLog{}, err
		}
	}

	if call.OutcomeLogID == nil || *call.OutcomeLogID != row.ID {
		if err := s.callRepo.SetOutcomeLogID(ctx, s.db, call.ID, row.ID); err != nil {
			return domain.OutcomeLog{}, err
		}
	}

	if err := s.syncPurchased(ctx, call.ID, outcome, row.PurchaseDate); err != nil {
		return domain.OutcomeLog{}, err
	}
	return *row, nil
}

// existingRow resolves the outcome row for a call. It prefers the
// linked row and falls back to a lookup by call_id so a missing link
// never produces a second row for the same call.
func (s *Service) existingRow(ctx context.Context, call *calldomain.Call) (*domain.OutcomeLog, error) {
	if call.OutcomeLogID != nil {
		row, err := s.repo.FindByID(ctx, s.db, *call.OutcomeLogID)
		if err != nil {
			return nil, err
		}
		if row != nil {
			return row, nil
		}
		s.log.Warn("outcome link points at missing row",
			zap.String("call_id", call.ID.String()),
			zap.String("outcome_log_id", call.OutcomeLogID.String()),
		)
	}
	return s.repo.FindLatestByCall(ctx, s.db, call.ID)
}

// syncPurchased mirrors the outcome onto the call's purchased flag. A
// lock-in or follow-up leaves the flag untouched because the deal is
// still open.
func (s *Service) syncPurchased(ctx context.Context, callID snowflake.ID, outcome domain.Outcome, purchaseDate *time.Time) error {
	switch outcome {
	case domain.OutcomeYes:
		at := purchaseDate
		if at == nil {
			now := s.clock.Now()
			at = &now
		}
		return s.callRepo.SetPurchased(ctx, s.db, callID, calldomain.TriYes, at)
	case domain.OutcomeNo, domain.OutcomeRefund:
		return s.callRepo.SetPurchased(ctx, s.db, callID, calldomain.TriNo, nil)
	default:
		return nil
	}
}

func (s *Service) GetByCall(ctx context.Context, callID snowflake.ID) (*domain.OutcomeLog, error) {
	if callID == 0 {
		return nil, domain.ErrInvalidCall
	}
	return s.repo.FindLatestByCall(ctx, s.db, callID)
}

func (s *Service) List(ctx context.Context, req domain.ListOutcomeRequest) ([]domain.OutcomeLog, error) {
	rows, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}
	deduped := domain.DedupeByCall(rows)
	out := make([]domain.OutcomeLog, 0, len(deduped))
	for _, row := range deduped {
		out = append(out, *row)
	}
	return out, nil
}

// applyRequest overwrites the row with the submission. The closer's
// latest submission is authoritative, so explicit nils clear fields.
func applyRequest(row *domain.OutcomeLog, req domain.SaveOutcomeRequest, outcome domain.Outcome, commission *float64, now time.Time) {
	row.CloserID = req.CloserID
	row.Outcome = outcome
	row.OfferID = req.OfferID
	row.Discount = req.Discount
	row.Commission = commission
	row.PurchaseDate = req.PurchaseDate
	row.RefundDate = req.RefundDate
	row.Clawback = req.Clawback
	row.PIF = req.PIF
	row.PaidSecondInstallment = req.PaidSecondInstallment
	row.Notes = strings.TrimSpace(req.Notes)
	row.UpdatedAt = now

	if outcome == domain.OutcomeYes && row.PurchaseDate == nil {
		at := now
		row.PurchaseDate = &at
	}
}
