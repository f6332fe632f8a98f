package items

import (
	"strings"
	"time"

	"github.com/hrygo/parsedate/plugin/datetime/calendar"
)

var months = map[string]time.Month{
	"jan":       time.January,
	"january":   time.January,
	"feb":       time.February,
	"february":  time.February,
	"mar":       time.March,
	"march":     time.March,
	"apr":       time.April,
	"april":     time.April,
	"may":       time.May,
	"jun":       time.June,
	"june":      time.June,
	"jul":       time.July,
	"july":      time.July,
	"aug":       time.August,
	"august":    time.August,
	"sep":       time.September,
	"sept":      time.September,
	"september": time.September,
	"oct":       time.October,
	"october":   time.October,
	"nov":       time.November,
	"november":  time.November,
	"dec":       time.December,
	"december":  time.December,
}

var weekdays = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednes":    time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

type unitWord struct {
	unit   calendar.Unit
	factor int64
}

var units = map[string]unitWord{
	"year":       {calendar.Year, 1},
	"years":      {calendar.Year, 1},
	"month":      {calendar.Month, 1},
	"months":     {calendar.Month, 1},
	"fortnight":  {calendar.Week, 2},
	"fortnights": {calendar.Week, 2},
	"week":       {calendar.Week, 1},
	"weeks":      {calendar.Week, 1},
	"day":        {calendar.Day, 1},
	"days":       {calendar.Day, 1},
	"hour":       {calendar.Hour, 1},
	"hours":      {calendar.Hour, 1},
	"minute":     {calendar.Minute, 1},
	"minutes":    {calendar.Minute, 1},
	"min":        {calendar.Minute, 1},
	"mins":       {calendar.Minute, 1},
	"second":     {calendar.Second, 1},
	"seconds":    {calendar.Second, 1},
	"sec":        {calendar.Second, 1},
	"secs":       {calendar.Second, 1},
}

// dayWords are relative items that stand alone.
var dayWords = map[string]int64{
	"yesterday": -1,
	"today":     0,
	"now":       0,
	"tomorrow":  1,
}

// unitFollows reports whether the next token is a unit word. The cursor
// does not move.
func unitFollows(s *Scanner) (bool, error) {
	mark := s.pos
	_, ok, err := optional(s, lexeme(lookup(units, "unit")))
	s.pos = mark
	return ok, err
}

// lookup reads a word and resolves it, case-insensitively, through table.
func lookup[V any](table map[string]V, what string) func(*Scanner) (V, error) {
	return func(s *Scanner) (V, error) {
		start := s.pos
		w, err := word(s)
		if err != nil {
			var zero V
			return zero, err
		}
		v, ok := table[strings.ToLower(w)]
		if !ok {
			return v, mismatch(start, "unknown %s %q", what, w)
		}
		return v, nil
	}
}
