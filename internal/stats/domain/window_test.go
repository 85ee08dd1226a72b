package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateWindowFor_TodayInMadrid(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// 23:30 UTC on the 10th is already the 11th in Madrid (summer).
	now := time.Date(2026, 7, 10, 23, 30, 0, 0, time.UTC)
	from, to, err := DateWindowFor("today", madrid, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 7, 11, 0, 0, 0, 0, madrid), from)
	assert.Equal(t, time.Date(2026, 7, 12, 0, 0, 0, 0, madrid), to)
}

func TestDateWindowFor_WeekStartsMonday(t *testing.T) {
	// 2026-07-12 is a Sunday.
	now := time.Date(2026, 7, 12, 10, 0, 0, 0, time.UTC)
	from, to, err := DateWindowFor("this_week", time.UTC, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 7, 13, 0, 0, 0, 0, time.UTC), to)
}

func TestDateWindowFor_LastMonthAcrossYear(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	from, to, err := DateWindowFor("last_month", time.UTC, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestDateWindowFor_UnknownPreset(t *testing.T) {
	_, _, err := DateWindowFor("fortnight", time.UTC, time.Now())
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestBucketKey(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// 23:30 UTC crosses midnight in Madrid.
	at := time.Date(2026, 7, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-07-11", BucketKey(at, madrid, "day"))
	assert.Equal(t, "2026-07-10", BucketKey(at, time.UTC, "day"))
	assert.Equal(t, "2026-07", BucketKey(at, time.UTC, "month"))
	assert.Equal(t, "2026-W28", BucketKey(at, time.UTC, "week"))
}

func TestComputeRates_ZeroDenominators(t *testing.T) {
	rates := ComputeRates(Totals{BookingsMade: 10})
	assert.Equal(t, 0.0, rates.PickUpRate)
	assert.Equal(t, 0.0, rates.ConfirmationRate)
	assert.Equal(t, 0.0, rates.ShowUpRateConfirmed)
	assert.Equal(t, 0.0, rates.ConversionRateBooked)
	assert.Equal(t, 0.0, rates.DQRate)
}

func TestComputeRates_Percentages(t *testing.T) {
	rates := ComputeRates(Totals{
		BookingsMade:         10,
		PickedUpFromBookings: 5,
		TotalBooked:          8,
		TotalPickedUp:        6,
		TotalConfirmed:       4,
		TotalShowedUp:        2,
		TotalPurchased:       1,
	})
	assert.InDelta(t, 50.0, rates.PickUpRate, 0.0001)
	assert.InDelta(t, 50.0, rates.ConfirmationRate, 0.0001)
	assert.InDelta(t, 50.0, rates.ShowUpRateConfirmed, 0.0001)
	assert.InDelta(t, 25.0, rates.ShowUpRateBooked, 0.0001)
	assert.InDelta(t, 50.0, rates.ConversionRateShowedUp, 0.0001)
	assert.InDelta(t, 12.5, rates.ConversionRateBooked, 0.0001)
	assert.InDelta(t, 100.0*2/6, rates.DQRate, 0.0001)
}

func TestCountryFromPhone(t *testing.T) {
	prefixes := map[string]string{
		"1":   "US",
		"34":  "ES",
		"351": "PT",
		"35":  "XX",
	}
	assert.Equal(t, "ES", CountryFromPhone("+34600123456", prefixes))
	assert.Equal(t, "ES", CountryFromPhone("0034 600 123 456", prefixes))
	assert.Equal(t, "US", CountryFromPhone("+1 (555) 000-1111", prefixes))
	// Longest prefix wins over the shorter "35".
	assert.Equal(t, "PT", CountryFromPhone("+351912345678", prefixes))
	assert.Equal(t, UnknownCountry, CountryFromPhone("", prefixes))
	assert.Equal(t, UnknownCountry, CountryFromPhone("+999123", prefixes))
	assert.Equal(t, UnknownCountry, CountryFromPhone("+34600123456", nil))
}

func TestClassifyMedium(t *testing.T) {
	assert.Equal(t, MediumTikTok, ClassifyMedium("TikTok"))
	assert.Equal(t, MediumInstagram, ClassifyMedium("instagram_story"))
	assert.Equal(t, MediumInstagram, ClassifyMedium("IG"))
	assert.Equal(t, MediumOther, ClassifyMedium("youtube"))
}
