package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateWindowFor resolves a named preset to a half-open [from, to)
// window. Boundaries are midnights in tz so a "day" means the report
// timezone's day, not the server's. Weeks start on Monday.
func DateWindowFor(preset string, tz *time.Location, now time.Time) (time.Time, time.Time, error) {
	if tz == nil {
		tz = time.UTC
	}
	local := now.In(tz)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)

	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "today":
		return today, today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), today, nil
	case "this_week":
		start := startOfWeek(today)
		return start, start.AddDate(0, 0, 7), nil
	case "last_week":
		start := startOfWeek(today).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 7), nil
	case "this_month":
		start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, tz)
		return start, start.AddDate(0, 1, 0), nil
	case "last_month":
		end := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, tz)
		return end.AddDate(0, -1, 0), end, nil
	case "last_7_days":
		return today.AddDate(0, 0, -6), today.AddDate(0, 0, 1), nil
	case "last_30_days":
		return today.AddDate(0, 0, -29), today.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidPreset
	}
}

func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, 1-weekday)
}

// BucketKey maps an instant to its day, week, or month bucket in tz.
// Unknown granularities fall back to day.
func BucketKey(t time.Time, tz *time.Location, granularity string) string {
	if tz == nil {
		tz = time.UTC
	}
	local := t.In(tz)
	switch strings.ToLower(strings.TrimSpace(granularity)) {
	case "week":
		year, week := local.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case "month":
		return local.Format("2006-01")
	default:
		return local.Format("2006-01-02")
	}
}
