package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }

func ptrT(v time.Time) *time.Time { return &v }

func TestComputeCommission_PIFOverridesDiscount(t *testing.T) {
	got := ComputeCommission(CommissionInput{
		Outcome:        OutcomeYes,
		HasOffer:       true,
		BaseCommission: 500,
		PIFCommission:  800,
		PIF:            true,
		Discount:       ptrF(50),
	})
	require.NotNil(t, got)
	assert.Equal(t, 800.0, *got)
}

func TestComputeCommission_PIFWithoutRateFallsBackToBase(t *testing.T) {
	got := ComputeCommission(CommissionInput{
		Outcome:        OutcomeYes,
		HasOffer:       true,
		BaseCommission: 500,
		PIFCommission:  0,
		PIF:            true,
		Discount:       ptrF(20),
	})
	require.NotNil(t, got)
	assert.InDelta(t, 400.0, *got, 0.0001)
}

func TestComputeCommission_DiscountReducesBase(t *testing.T) {
	got := ComputeCommission(CommissionInput{
		Outcome:        OutcomeYes,
		HasOffer:       true,
		BaseCommission: 1000,
		Discount:       ptrF(25),
	})
	require.NotNil(t, got)
	assert.InDelta(t, 750.0, *got, 0.0001)
}

func TestComputeCommission_FullRefundNegatesSale(t *testing.T) {
	sale := ComputeCommission(CommissionInput{
		Outcome:        OutcomeYes,
		HasOffer:       true,
		BaseCommission: 600,
	})
	refund := ComputeCommission(CommissionInput{
		Outcome:        OutcomeRefund,
		HasOffer:       true,
		BaseCommission: 600,
	})
	require.NotNil(t, sale)
	require.NotNil(t, refund)
	assert.Equal(t, *sale, -*refund)
}

func TestComputeCommission_PartialClawbackSameMonth(t *testing.T) {
	// Sale and refund both in March: the pair nets to the retained
	// 40% of the original commission.
	purchase := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	refundAt := time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC)
	got := ComputeCommission(CommissionInput{
		Outcome:        OutcomeRefund,
		HasOffer:       true,
		BaseCommission: 1000,
		Clawback:       ptrF(60),
		PurchaseDate:   ptrT(purchase),
		RefundDate:     ptrT(refundAt),
	})
	require.NotNil(t, got)
	assert.InDelta(t, 400.0, *got, 0.0001)
	assert.True(t, *got > 0)
}

func TestComputeCommission_PartialClawbackAcrossMonths(t *testing.T) {
	purchase := time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC)
	refundAt := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	got := ComputeCommission(CommissionInput{
		Outcome:        OutcomeRefund,
		HasOffer:       true,
		BaseCommission: 1000,
		Clawback:       ptrF(60),
		PurchaseDate:   ptrT(purchase),
		RefundDate:     ptrT(refundAt),
	})
	require.NotNil(t, got)
	assert.InDelta(t, -600.0, *got, 0.0001)
}

func TestComputeCommission_SameMonthRequiresBothDates(t *testing.T) {
	// A missing refund date cannot count as same-month, so the
	// cross-month deduction applies.
	purchase := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	got := ComputeCommission(CommissionInput{
		Outcome:        OutcomeRefund,
		HasOffer:       true,
		BaseCommission: 1000,
		Clawback:       ptrF(60),
		PurchaseDate:   ptrT(purchase),
	})
	require.NotNil(t, got)
	assert.InDelta(t, -600.0, *got, 0.0001)
}

func TestComputeCommission_SameMonthDifferentYear(t *testing.T) {
	purchase := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	refundAt := time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC)
	got := ComputeCommission(CommissionInput{
		Outcome:        OutcomeRefund,
		HasOffer:       true,
		BaseCommission: 1000,
		Clawback:       ptrF(50),
		PurchaseDate:   ptrT(purchase),
		RefundDate:     ptrT(refundAt),
	})
	require.NotNil(t, got)
	assert.InDelta(t, -500.0, *got, 0.0001)
}

func TestComputeCommission_NilCases(t *testing.T) {
	assert.Nil(t, ComputeCommission(CommissionInput{Outcome: OutcomeNo, HasOffer: true, BaseCommission: 500}))
	assert.Nil(t, ComputeCommission(CommissionInput{Outcome: OutcomeLockIn, HasOffer: true, BaseCommission: 500}))
	assert.Nil(t, ComputeCommission(CommissionInput{Outcome: OutcomeFollowUp, HasOffer: true, BaseCommission: 500}))
	assert.Nil(t, ComputeCommission(CommissionInput{Outcome: OutcomeYes, HasOffer: false}))
}

func TestDedupeByCall_KeepsHighestID(t *testing.T) {
	rows := []*OutcomeLog{
		{ID: 1, CallID: 10, Outcome: OutcomeNo},
		{ID: 5, CallID: 10, Outcome: OutcomeYes},
		{ID: 3, CallID: 10, Outcome: OutcomeFollowUp},
		{ID: 2, CallID: 20, Outcome: OutcomeNo},
	}
	deduped := DedupeByCall(rows)
	require.Len(t, deduped, 2)
	assert.Equal(t, OutcomeYes, deduped[0].Outcome)
	assert.Equal(t, int64(5), int64(deduped[0].ID))
	assert.Equal(t, int64(2), int64(deduped[1].ID))
}

func TestCountsAsSale(t *testing.T) {
	assert.True(t, OutcomeLog{Outcome: OutcomeYes}.CountsAsSale())
	assert.False(t, OutcomeLog{Outcome: OutcomeRefund}.CountsAsSale())
	assert.False(t, OutcomeLog{Outcome: OutcomeRefund, Clawback: ptrF(100)}.CountsAsSale())
	assert.True(t, OutcomeLog{Outcome: OutcomeRefund, Clawback: ptrF(40)}.CountsAsSale())
	assert.False(t, OutcomeLog{Outcome: OutcomeNo}.CountsAsSale())
}
