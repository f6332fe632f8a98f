package items

import (
	"fmt"
	"time"

	"github.com/hrygo/parsedate/plugin/datetime/calendar"
)

// Item is one independently parsed part of a date string. The set of items
// is closed: CalendarDate, TimeOfDay, TimeZoneOverride, CombinedDateTime,
// WeekdayRef and RelativeOffset.
type Item interface {
	fmt.Stringer
	item()
}

// CalendarDate is a calendar date item. Day is only checked against 1–31;
// whether it exists in Month is decided at resolution.
type CalendarDate struct {
	Year    int
	HasYear bool
	Month   time.Month
	Day     int
}

// Meridiem marks a 12-hour clock time.
type Meridiem int

const (
	NoMeridiem Meridiem = iota
	AM
	PM
)

// TimeOfDay is a time of day item.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Meridiem   Meridiem

	// Offset is a zone correction in seconds east of UTC, set when
	// HasOffset is true.
	Offset    int
	HasOffset bool
}

// Hour24 returns the hour on a 24-hour clock.
func (t TimeOfDay) Hour24() int {
	switch t.Meridiem {
	case AM:
		return t.Hour % 12
	case PM:
		return t.Hour%12 + 12
	}
	return t.Hour
}

// TimeZoneOverride is a TZ="..." item. Raw is the decoded rule string.
type TimeZoneOverride struct {
	Raw string
}

// CombinedDateTime is a date and a time written as one stamp.
type CombinedDateTime struct {
	Date CalendarDate
	Time TimeOfDay
}

// WeekdayRef is a day of the week item, optionally preceded by an ordinal.
type WeekdayRef struct {
	Weekday time.Weekday
	Offset  int64
}

// RelativeOffset is a relative item such as "3 days ago".
type RelativeOffset struct {
	Quantity int64
	Unit     calendar.Unit
}

func (CalendarDate) item()     {}
func (TimeOfDay) item()        {}
func (TimeZoneOverride) item() {}
func (CombinedDateTime) item() {}
func (WeekdayRef) item()       {}
func (RelativeOffset) item()   {}

func (d CalendarDate) String() string {
	if !d.HasYear {
		return fmt.Sprintf("date --%02d-%02d", int(d.Month), d.Day)
	}
	return fmt.Sprintf("date %04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (t TimeOfDay) String() string {
	s := fmt.Sprintf("time %02d:%02d:%02d", t.Hour24(), t.Minute, t.Second)
	if t.Nanosecond != 0 {
		s += fmt.Sprintf(".%09d", t.Nanosecond)
	}
	if t.HasOffset {
		s += " " + formatOffset(t.Offset)
	}
	return s
}

func (z TimeZoneOverride) String() string {
	return fmt.Sprintf("TZ=%q", z.Raw)
}

func (c CombinedDateTime) String() string {
	return c.Date.String() + " " + c.Time.String()
}

func (w WeekdayRef) String() string {
	return fmt.Sprintf("weekday %s (offset %d)", w.Weekday, w.Offset)
}

func (r RelativeOffset) String() string {
	return fmt.Sprintf("relative %+d %s", r.Quantity, r.Unit)
}

func formatOffset(secs int) string {
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("%c%02d:%02d", sign, secs/3600, secs%3600/60)
}
