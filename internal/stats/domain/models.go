package domain

import (
	"context"
	"errors"
	"time"
)

// OverviewRequest selects the reporting window. Either a preset or an
// explicit From/To pair is required; Timezone overrides the configured
// report timezone for boundary computation.
type OverviewRequest struct {
	Preset   string
	From     *time.Time
	To       *time.Time
	Timezone string
}

type Window struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Timezone string    `json:"timezone"`
}

// Totals are the raw counters behind the rates. Bookings are counted by
// book_date, call activity by call_date, and purchases by the outcome
// row's purchase_date.
type Totals struct {
	BookingsMade         int `json:"bookings_made"`
	PickedUpFromBookings int `json:"picked_up_from_bookings"`
	TotalBooked          int `json:"total_booked"`
	TotalPickedUp        int `json:"total_picked_up"`
	TotalConfirmed       int `json:"total_confirmed"`
	TotalShowedUp        int `json:"total_showed_up"`
	TotalPurchased       int `json:"total_purchased"`
}

// Rates are percentages; any rate whose denominator is zero is zero.
type Rates struct {
	PickUpRate             float64 `json:"pick_up_rate"`
	ConfirmationRate       float64 `json:"confirmation_rate"`
	ShowUpRateConfirmed    float64 `json:"show_up_rate_confirmed"`
	ShowUpRateBooked       float64 `json:"show_up_rate_booked"`
	ConversionRateShowedUp float64 `json:"conversion_rate_showed_up"`
	ConversionRateBooked   float64 `json:"conversion_rate_booked"`
	DQRate                 float64 `json:"dq_rate"`
}

type Segment struct {
	Key string `json:"key"`
	Totals
	Rates
}

type Overview struct {
	Window Window `json:"window"`
	Totals
	Rates
	ByCloser  []Segment `json:"by_closer"`
	BySetter  []Segment `json:"by_setter"`
	ByCountry []Segment `json:"by_country"`
	BySource  []Segment `json:"by_source"`
	ByMedium  []Segment `json:"by_medium"`
}

type Service interface {
	Overview(ctx context.Context, req OverviewRequest) (Overview, error)
}

var (
	ErrInvalidWindow = errors.New("invalid_window")
	ErrInvalidPreset = errors.New("invalid_preset")
)

// ComputeRates derives the percentage rates from raw counters.
func ComputeRates(t Totals) Rates {
	return Rates{
		PickUpRate:             pct(t.PickedUpFromBookings, t.BookingsMade),
		ConfirmationRate:       pct(t.TotalConfirmed, t.TotalBooked),
		ShowUpRateConfirmed:    pct(t.TotalShowedUp, t.TotalConfirmed),
		ShowUpRateBooked:       pct(t.TotalShowedUp, t.TotalBooked),
		ConversionRateShowedUp: pct(t.TotalPurchased, t.TotalShowedUp),
		ConversionRateBooked:   pct(t.TotalPurchased, t.TotalBooked),
		DQRate:                 pct(t.TotalPickedUp-t.TotalConfirmed, t.TotalPickedUp),
	}
}

func pct(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
