// Package datetime resolves GNU date strings, as accepted by
// "date --date", into instants.
//
//	t, err := datetime.Resolve("next friday 10am", time.Now())
//
// Parsing and resolution are separate steps: Parse yields a PartialSpec
// that depends only on the input and can be resolved against any number of
// base instants.
package datetime

import (
	"time"

	"github.com/hrygo/parsedate/plugin/datetime/calendar"
	"github.com/hrygo/parsedate/server/timezone"
)

type resolver struct {
	engine   calendar.Engine
	loadZone func(name string) *time.Location
}

// Option configures resolution.
type Option func(*resolver)

// WithCalendar sets the calendar engine. The default is calendar.Gregorian.
func WithCalendar(engine calendar.Engine) Option {
	return func(r *resolver) {
		r.engine = engine
	}
}

// WithZoneLoader sets the function that turns a TZ="..." string into a
// location. The default is timezone.LoadZone.
func WithZoneLoader(load func(name string) *time.Location) Option {
	return func(r *resolver) {
		r.loadZone = load
	}
}

// Resolve parses input and resolves it against now. The error is either a
// *ParseError or a *ResolutionError.
func Resolve(input string, now time.Time, opts ...Option) (time.Time, error) {
	spec, err := Parse(input)
	if err != nil {
		return time.Time{}, err
	}
	return spec.Resolve(now, opts...)
}

// Resolve computes the instant described by p relative to now.
//
// The result is in the zone of the last TZ="..." item, or in now's
// location when there is none. Fields missing from the date are taken from
// now. Without a time of day the clock is midnight if a date or weekday was
// given, or if the input had no items at all; otherwise it is now's clock.
// The weekday is applied next, then the relative items in input order.
func (p PartialSpec) Resolve(now time.Time, opts ...Option) (time.Time, error) {
	r := resolver{
		engine:   calendar.Gregorian{},
		loadZone: timezone.LoadZone,
	}
	for _, opt := range opts {
		opt(&r)
	}

	loc := now.Location()
	if p.Zone != nil {
		loc = r.loadZone(p.Zone.Raw)
	}
	base := now.In(loc)

	year, month, day := base.Date()
	if p.Date != nil {
		month, day = p.Date.Month, p.Date.Day
		if p.Date.HasYear {
			year = p.Date.Year
		}
		if err := r.engine.ValidateDate(year, month, day); err != nil {
			return time.Time{}, p.fail("invalid calendar date", err)
		}
	}

	var t time.Time
	switch {
	case p.Time != nil:
		tod := p.Time
		zone := loc
		if tod.HasOffset {
			zone = time.FixedZone("", tod.Offset)
		}
		t = time.Date(year, month, day, tod.Hour24(), tod.Minute, tod.Second, tod.Nanosecond, zone).In(loc)
	case p.Date != nil || p.Weekday != nil || len(p.Items) == 0:
		t = time.Date(year, month, day, 0, 0, 0, 0, loc)
	default:
		t = base
	}

	if p.Weekday != nil {
		var err error
		if t, err = r.engine.NearestWeekday(t, p.Weekday.Weekday, p.Weekday.Offset); err != nil {
			return time.Time{}, p.fail("cannot apply weekday", err)
		}
	}

	for _, rel := range p.Relative {
		var err error
		if t, err = r.engine.AddDuration(t, rel.Quantity, rel.Unit); err != nil {
			return time.Time{}, p.fail("cannot apply relative offset", err)
		}
	}
	return t, nil
}

func (p PartialSpec) fail(msg string, cause error) *ResolutionError {
	return &ResolutionError{Input: p.input, Msg: msg, Cause: cause}
}
