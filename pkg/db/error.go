package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Unique-violation markers for the drivers this service runs against:
// postgres in production (error code 23505) and sqlite in tests (2067).
// gorm's translated sentinel is checked first; the markers cover
// connections opened without error translation.
var duplicateKeyMarkers = []string{
	"duplicate key value violates unique constraint",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint
// violation, so a write that raced another insert can be retried as an
// update instead of surfacing as a failure.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
