package config

import (
	"strings"
	"time"
)

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// Location resolves the configured report timezone, falling back to UTC
// when the zone database does not know the name.
func (c SalesConfig) Location() *time.Location {
	loc, err := loadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
