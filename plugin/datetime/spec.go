package datetime

import (
	"fmt"

	"github.com/hrygo/parsedate/plugin/datetime/items"
)

// PartialSpec accumulates the items of one date string. Date, Time, Zone
// and Weekday hold the last item of their kind; Relative keeps every
// relative item in input order.
//
// A PartialSpec is not modified by Resolve and may be shared.
type PartialSpec struct {
	Date     *items.CalendarDate
	Time     *items.TimeOfDay
	Zone     *items.TimeZoneOverride
	Weekday  *items.WeekdayRef
	Relative []items.RelativeOffset

	// Items lists every parsed item in input order.
	Items []items.Item

	input string
}

// Input returns the string the spec was parsed from.
func (p *PartialSpec) Input() string {
	return p.input
}

// Apply folds one item into the spec.
func (p *PartialSpec) Apply(it items.Item) {
	switch it := it.(type) {
	case items.CalendarDate:
		p.Date = &it
	case items.TimeOfDay:
		p.Time = &it
	case items.CombinedDateTime:
		date, tod := it.Date, it.Time
		p.Date, p.Time = &date, &tod
	case items.TimeZoneOverride:
		p.Zone = &it
	case items.WeekdayRef:
		p.Weekday = &it
	case items.RelativeOffset:
		p.Relative = append(p.Relative, it)
	default:
		panic(fmt.Sprintf("datetime: unexpected item %T", it))
	}
	p.Items = append(p.Items, it)
}

// Parse parses input into a PartialSpec. The whole string must consist of
// items, whitespace and comments; otherwise the error is a *ParseError.
func Parse(input string) (PartialSpec, error) {
	spec := PartialSpec{input: input}
	for it, err := range items.All(input) {
		if err != nil {
			return PartialSpec{}, newParseError(input, err)
		}
		spec.Apply(it)
	}
	return spec, nil
}
