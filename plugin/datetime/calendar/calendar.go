// Package calendar provides the date arithmetic used to resolve date strings.
//
// An Engine is a pure function of its arguments; the default Gregorian engine
// is safe for concurrent use.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Supported year range. Results outside of it are reported as ErrOverflow.
const (
	MinYear = -999_999_999
	MaxYear = 999_999_999
)

// Errors
var (
	ErrInvalidDate = errors.New("invalid date")
	ErrOverflow    = errors.New("date out of range")
)

// Unit is the unit of a relative offset.
type Unit int

const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitNames = [...]string{
	Second: "second",
	Minute: "minute",
	Hour:   "hour",
	Day:    "day",
	Week:   "week",
	Month:  "month",
	Year:   "year",
}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// Engine is the calendar collaborator of the resolver.
type Engine interface {
	// DaysInMonth returns the number of days in the given month.
	DaysInMonth(year int, month time.Month) int

	// ValidateDate reports whether year-month-day names an existing day.
	ValidateDate(year int, month time.Month, day int) error

	// AddDuration moves t by quantity units. Months and years keep the
	// day of month, clamped to the length of the target month.
	AddDuration(t time.Time, quantity int64, unit Unit) (time.Time, error)

	// NearestWeekday moves t to the weekday selected by ordinal:
	// 0 is t itself or the next such weekday, n > 0 counts that one as
	// the first, n < 0 goes |n| weeks back from it.
	NearestWeekday(t time.Time, weekday time.Weekday, ordinal int64) (time.Time, error)
}

// Gregorian implements Engine for the proleptic Gregorian calendar.
type Gregorian struct{}

var _ Engine = Gregorian{}

// IsLeap reports whether year is a leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func (Gregorian) DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

func (g Gregorian) ValidateDate(year int, month time.Month, day int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year %d", ErrOverflow, year)
	}
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidDate, int(month))
	}
	if n := g.DaysInMonth(year, month); day < 1 || day > n {
		return fmt.Errorf("%w: %s has %d days in %d, got day %d", ErrInvalidDate, month, n, year, day)
	}
	return nil
}

var unitSeconds = map[Unit]int64{
	Second: 1,
	Minute: 60,
	Hour:   3600,
}

func (g Gregorian) AddDuration(t time.Time, quantity int64, unit Unit) (time.Time, error) {
	var result time.Time
	switch unit {
	case Second, Minute, Hour:
		secs, ok := mul(quantity, unitSeconds[unit])
		if !ok || secs > maxDays*secondsPerDay || secs < -maxDays*secondsPerDay {
			return time.Time{}, overflow(quantity, unit)
		}
		unix, ok := add(t.Unix(), secs)
		if !ok {
			return time.Time{}, overflow(quantity, unit)
		}
		result = time.Unix(unix, int64(t.Nanosecond())).In(t.Location())
	case Day, Week:
		days := quantity
		if unit == Week {
			var ok bool
			if days, ok = mul(quantity, 7); !ok {
				return time.Time{}, overflow(quantity, unit)
			}
		}
		if days > maxDays || days < -maxDays {
			return time.Time{}, overflow(quantity, unit)
		}
		result = t.AddDate(0, 0, int(days))
	case Month, Year:
		months := quantity
		if unit == Year {
			var ok bool
			if months, ok = mul(quantity, 12); !ok {
				return time.Time{}, overflow(quantity, unit)
			}
		}
		total, ok := add(int64(t.Year())*12+int64(t.Month()-1), months)
		if !ok {
			return time.Time{}, overflow(quantity, unit)
		}
		year, m := total/12, total%12
		if m < 0 {
			m += 12
			year--
		}
		if year < MinYear || year > MaxYear {
			return time.Time{}, overflow(quantity, unit)
		}
		month := time.Month(m + 1)
		day := min(t.Day(), g.DaysInMonth(int(year), month))
		hour, minute, sec := t.Clock()
		result = time.Date(int(year), month, day, hour, minute, sec, t.Nanosecond(), t.Location())
	default:
		return time.Time{}, fmt.Errorf("unsupported unit %s", unit)
	}

	if y := result.Year(); y < MinYear || y > MaxYear {
		return time.Time{}, overflow(quantity, unit)
	}
	return result, nil
}

func (Gregorian) NearestWeekday(t time.Time, weekday time.Weekday, ordinal int64) (time.Time, error) {
	current := t.Weekday()
	weeks := ordinal
	if ordinal > 0 && current != weekday {
		weeks--
	}
	days, ok := mul(weeks, 7)
	if !ok || days > maxDays || days < -maxDays {
		return time.Time{}, fmt.Errorf("%w: weekday ordinal %d", ErrOverflow, ordinal)
	}
	days += int64((weekday - current + 7) % 7)

	result := t.AddDate(0, 0, int(days))
	if y := result.Year(); y < MinYear || y > MaxYear {
		return time.Time{}, fmt.Errorf("%w: weekday ordinal %d", ErrOverflow, ordinal)
	}
	return result, nil
}

// maxDays bounds a day offset so that AddDate cannot overflow.
const maxDays = int64(MaxYear-MinYear+1) * 366

const secondsPerDay = 86400

func overflow(quantity int64, unit Unit) error {
	return fmt.Errorf("%w: %d %s", ErrOverflow, quantity, unit)
}

func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return c, true
}

func add(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}
	return c, true
}
