// Package timezone provides timezone utilities for parsedate.
//
// It covers the two ways a zone enters the application: the ambient zone
// configured by the host (strict, an unknown name is an error) and the
// TZ="..." override inside a date string (lenient, as glibc is).
package timezone

import (
	"fmt"
	"time"
)

// Default location constants
var (
	// UTC is the coordinated universal time timezone
	UTC = time.UTC
)

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Shanghai").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// LoadZone loads the zone named by a TZ="..." override. A name the zone
// database does not know becomes a zone with offset zero that keeps the
// name, which is what glibc does with an unparsable TZ.
func LoadZone(name string) *time.Location {
	if name == "UTC" {
		return UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 0)
	}
	return loc
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	t = t.In(tz)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, tz)
}
