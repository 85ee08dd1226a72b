package domain

import "time"

// CommissionInput is everything the commission calculation depends on.
// Offer rates are passed by value so the calculation stays pure and
// testable without a database.
type CommissionInput struct {
	Outcome        Outcome
	HasOffer       bool
	BaseCommission float64
	PIFCommission  float64
	PIF            bool
	Discount       *float64
	Clawback       *float64
	PurchaseDate   *time.Time
	RefundDate     *time.Time
}

// ComputeCommission derives the commission owed for an outcome row.
// It returns nil when the outcome carries no commission at all, which
// is distinct from an explicit zero.
//
// A paid-in-full sale uses the offer's PIF rate when one is configured,
// ignoring any discount. Otherwise the base rate is reduced by the
// discount percentage. A refund negates the sale's commission; when the
// clawback is partial the closer keeps the residual, and whether that
// residual lands as a positive or negative adjustment depends on
// whether the refund happened in the same calendar month as the sale.
func ComputeCommission(in CommissionInput) *float64 {
	if in.Outcome != OutcomeYes && in.Outcome != OutcomeRefund {
		return nil
	}
	if !in.HasOffer {
		return nil
	}

	var amount float64
	if in.PIF && in.PIFCommission > 0 {
		amount = in.PIFCommission
	} else {
		amount = in.BaseCommission
		if in.Discount != nil && *in.Discount > 0 {
			amount = in.BaseCommission * (1 - *in.Discount/100)
		}
	}

	if in.Outcome == OutcomeYes {
		return &amount
	}

	commission := -amount
	clawback := float64(100)
	if in.Clawback != nil {
		clawback = *in.Clawback
	}
	if clawback < 100 {
		if sameCalendarMonth(in.PurchaseDate, in.RefundDate) {
			// Sale and refund net out within the month, leaving
			// only the retained share as a positive entry.
			commission = amount * (100 - clawback) / 100
		} else {
			// The sale's commission was already paid out in a
			// previous month, so only the clawed-back share is
			// deducted now.
			commission = commission * clawback / 100
		}
	}
	return &commission
}

func sameCalendarMonth(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Year()*12+int(a.Month()) == b.Year()*12+int(b.Month())
}

// DedupeByCall collapses duplicate rows for the same call, keeping the
// row with the highest id (the most recent write). Legacy data may hold
// duplicates from before the save path guarded against them.
func DedupeByCall(rows []*OutcomeLog) []*OutcomeLog {
	latest := make(map[int64]*OutcomeLog, len(rows))
	order := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		key := int64(row.CallID)
		current, ok := latest[key]
		if !ok {
			latest[key] = row
			order = append(order, key)
			continue
		}
		if row.ID > current.ID {
			latest[key] = row
		}
	}
	out := make([]*OutcomeLog, 0, len(order))
	for _, key := range order {
		out = append(out, latest[key])
	}
	return out
}
