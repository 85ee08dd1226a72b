package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	callrepository "github.com/opsdesk/salesdesk/internal/call/repository"
	"github.com/opsdesk/salesdesk/internal/clock"
	offerdomain "github.com/opsdesk/salesdesk/internal/offer/domain"
	offerrepository "github.com/opsdesk/salesdesk/internal/offer/repository"
	"github.com/opsdesk/salesdesk/internal/outcome/domain"
	"github.com/opsdesk/salesdesk/internal/outcome/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOutcomeTest(t *testing.T) (*gorm.DB, domain.Service, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&calldomain.Call{},
		&offerdomain.Offer{},
		&domain.OutcomeLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      repository.Provide(),
		CallRepo:  callrepository.Provide(),
		OfferRepo: offerrepository.Provide(),
	})
	return db, svc, node, fake
}

func seedCall(t *testing.T, db *gorm.DB, node *snowflake.Node) *calldomain.Call {
	t.Helper()
	call := &calldomain.Call{
		ID:        node.Generate(),
		LeadID:    node.Generate(),
		BookDate:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		CallDate:  time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC),
		PickedUp:  calldomain.TriTBD,
		Confirmed: calldomain.TriTBD,
		ShowedUp:  calldomain.TriTBD,
		Purchased: calldomain.TriTBD,
	}
	require.NoError(t, db.Create(call).Error)
	return call
}

func seedOffer(t *testing.T, db *gorm.DB, node *snowflake.Node, base, pif float64) *offerdomain.Offer {
	t.Helper()
	offer := &offerdomain.Offer{
		ID:             node.Generate(),
		Name:           "Accelerator",
		BaseCommission: base,
		PIFCommission:  pif,
	}
	require.NoError(t, db.Create(offer).Error)
	return offer
}

func TestSaveOutcome_RepeatedSavesUpdateSingleRow(t *testing.T) {
	db, svc, node, _ := setupOutcomeTest(t)
	call := seedCall(t, db, node)

	first, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeFollowUp,
	})
	require.NoError(t, err)

	second, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeNo,
		Notes:   "went with a competitor",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.OutcomeNo, second.Outcome)

	var count int64
	require.NoError(t, db.Model(&domain.OutcomeLog{}).Where("call_id = ?", call.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var updated calldomain.Call
	require.NoError(t, db.First(&updated, "id = ?", call.ID).Error)
	require.NotNil(t, updated.OutcomeLogID)
	assert.Equal(t, first.ID, *updated.OutcomeLogID)
}

func TestSaveOutcome_ResaveReplacesWholeRow(t *testing.T) {
	db, svc, node, _ := setupOutcomeTest(t)
	call := seedCall(t, db, node)
	offer := seedOffer(t, db, node, 500, 650)

	discount := 10.0
	purchase := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	first, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:       call.ID,
		Outcome:      domain.OutcomeYes,
		OfferID:      &offer.ID,
		Discount:     &discount,
		PurchaseDate: &purchase,
		Notes:        "paid in full",
	})
	require.NoError(t, err)
	require.NotNil(t, first.OfferID)

	second, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeFollowUp,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var stored domain.OutcomeLog
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, domain.OutcomeFollowUp, stored.Outcome)
	assert.Nil(t, stored.OfferID)
	assert.Nil(t, stored.Discount)
	assert.Nil(t, stored.PurchaseDate)
	assert.Empty(t, stored.Notes)
}

func TestSaveOutcome_GuardsAgainstMissingLink(t *testing.T) {
	db, svc, node, _ := setupOutcomeTest(t)
	call := seedCall(t, db, node)

	first, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeLockIn,
	})
	require.NoError(t, err)

	// Simulate a legacy row whose link back from the call was lost.
	require.NoError(t, db.Model(&calldomain.Call{}).
		Where("id = ?", call.ID).
		Update("outcome_log_id", nil).Error)

	second, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeYes,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&domain.OutcomeLog{}).Where("call_id = ?", call.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSaveOutcome_YesSyncsPurchased(t *testing.T) {
	db, svc, node, fake := setupOutcomeTest(t)
	call := seedCall(t, db, node)
	offer := seedOffer(t, db, node, 500, 0)

	saved, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeYes,
		OfferID: &offer.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, saved.Commission)
	assert.Equal(t, 500.0, *saved.Commission)
	require.NotNil(t, saved.PurchaseDate)
	assert.Equal(t, fake.Now(), saved.PurchaseDate.UTC())

	var updated calldomain.Call
	require.NoError(t, db.First(&updated, "id = ?", call.ID).Error)
	assert.Equal(t, calldomain.TriYes, updated.Purchased)
	require.NotNil(t, updated.PurchasedAt)
}

func TestSaveOutcome_RefundClearsPurchased(t *testing.T) {
	db, svc, node, _ := setupOutcomeTest(t)
	call := seedCall(t, db, node)
	offer := seedOffer(t, db, node, 500, 0)

	_, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeYes,
		OfferID: &offer.ID,
	})
	require.NoError(t, err)

	refundAt := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	purchase := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	saved, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:       call.ID,
		Outcome:      domain.OutcomeRefund,
		OfferID:      &offer.ID,
		PurchaseDate: &purchase,
		RefundDate:   &refundAt,
	})
	require.NoError(t, err)
	require.NotNil(t, saved.Commission)
	assert.Equal(t, -500.0, *saved.Commission)

	var updated calldomain.Call
	require.NoError(t, db.First(&updated, "id = ?", call.ID).Error)
	assert.Equal(t, calldomain.TriNo, updated.Purchased)
	assert.Nil(t, updated.PurchasedAt)
}

func TestSaveOutcome_LockInLeavesPurchasedUntouched(t *testing.T) {
	db, svc, node, _ := setupOutcomeTest(t)
	call := seedCall(t, db, node)

	_, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeLockIn,
	})
	require.NoError(t, err)

	var updated calldomain.Call
	require.NoError(t, db.First(&updated, "id = ?", call.ID).Error)
	assert.Equal(t, calldomain.TriTBD, updated.Purchased)
}

func TestSaveOutcome_Validation(t *testing.T) {
	db, svc, node, _ := setupOutcomeTest(t)
	call := seedCall(t, db, node)

	_, err := svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: "maybe",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOutcome)

	_, err = svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  node.Generate(),
		Outcome: domain.OutcomeNo,
	})
	assert.ErrorIs(t, err, domain.ErrCallNotFound)

	missingOffer := node.Generate()
	_, err = svc.SaveOutcome(context.Background(), domain.SaveOutcomeRequest{
		CallID:  call.ID,
		Outcome: domain.OutcomeYes,
		OfferID: &missingOffer,
	})
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)
}

func TestList_DedupesLegacyDuplicates(t *testing.T) {
	db, svc, node, _ := setupOutcomeTest(t)
	call := seedCall(t, db, node)

	// Two rows for the same call, written before the save path
	// guarded against duplicates.
	older := &domain.OutcomeLog{ID: node.Generate(), CallID: call.ID, Outcome: domain.OutcomeNo}
	require.NoError(t, db.Create(older).Error)
	newer := &domain.OutcomeLog{ID: node.Generate(), CallID: call.ID, Outcome: domain.OutcomeYes}
	require.NoError(t, db.Create(newer).Error)

	rows, err := svc.List(context.Background(), domain.ListOutcomeRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, domain.OutcomeYes, rows[0].Outcome)
}
