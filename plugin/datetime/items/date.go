package items

import "time"

// GNU date items:
//
//	2022-11-14      ISO 8601, two-digit years allowed
//	11/14/2022      US, year optional
//	14 nov 2022     day month [year], '-' may separate the parts
//	November 14, 2022
//	                month day [[,] year]
func parseDate(s *Scanner) (CalendarDate, error) {
	var furthest *Error
	for _, p := range []func(*Scanner) (CalendarDate, error){isoDate, usDate, dayMonthDate, monthDayDate} {
		d, err := attempt(s, p)
		if err == nil {
			return d, nil
		}
		if isCommitted(err) {
			return CalendarDate{}, err
		}
		furthest = further(furthest, err)
	}
	return CalendarDate{}, furthest
}

func isoDate(s *Scanner) (CalendarDate, error) {
	start := s.pos
	y, err := digits(s)
	if err != nil {
		return CalendarDate{}, err
	}
	if _, err := char('-')(s); err != nil {
		return CalendarDate{}, err
	}
	m, err := monthNumber(s)
	if err != nil {
		return CalendarDate{}, err
	}
	if _, err := char('-')(s); err != nil {
		return CalendarDate{}, err
	}
	d, err := dayNumber(s)
	if err != nil {
		return CalendarDate{}, err
	}
	year, err := yearNumber(start, y)
	if err != nil {
		return CalendarDate{}, err
	}
	return CalendarDate{Year: year, HasYear: true, Month: m, Day: d}, nil
}

func usDate(s *Scanner) (CalendarDate, error) {
	m, err := monthNumber(s)
	if err != nil {
		return CalendarDate{}, err
	}
	if _, err := char('/')(s); err != nil {
		return CalendarDate{}, err
	}
	d, err := dayNumber(s)
	if err != nil {
		return CalendarDate{}, err
	}
	date := CalendarDate{Month: m, Day: d}
	if s.peekByte() != '/' {
		return date, nil
	}
	s.pos++
	start := s.pos
	y, err := digits(s)
	if err != nil {
		return CalendarDate{}, err
	}
	if date.Year, err = yearNumber(start, y); err != nil {
		return CalendarDate{}, err
	}
	date.HasYear = true
	return date, nil
}

func dayMonthDate(s *Scanner) (CalendarDate, error) {
	d, err := dayNumber(s)
	if err != nil {
		return CalendarDate{}, err
	}
	dashed := s.consume("-")
	m, err := lexeme(lookup(months, "month"))(s)
	if err != nil {
		return CalendarDate{}, err
	}
	date := CalendarDate{Month: m, Day: d}
	if dashed {
		if !s.consume("-") {
			return date, nil
		}
		start := s.pos
		y, err := digits(s)
		if err != nil {
			return CalendarDate{}, err
		}
		date.Year, err = yearNumber(start, y)
		if err != nil {
			return CalendarDate{}, err
		}
		date.HasYear = true
		return date, nil
	}
	return optionalYear(s, date)
}

func monthDayDate(s *Scanner) (CalendarDate, error) {
	m, err := lookup(months, "month")(s)
	if err != nil {
		return CalendarDate{}, err
	}
	if !s.consume("-") {
		if err := s.SkipSpace(); err != nil {
			return CalendarDate{}, err
		}
	}
	d, err := dayNumber(s)
	if err != nil {
		return CalendarDate{}, err
	}
	date := CalendarDate{Month: m, Day: d}

	mark := s.pos
	if err := s.SkipSpace(); err != nil {
		return CalendarDate{}, err
	}
	if !s.consume(",") && !s.consume("-") {
		s.pos = mark
	}
	return optionalYear(s, date)
}

// optionalYear completes date with a following year, if there is one.
func optionalYear(s *Scanner, date CalendarDate) (CalendarDate, error) {
	y, ok, err := optional(s, lexeme(yearToken))
	if err != nil {
		return CalendarDate{}, err
	}
	if ok {
		date.Year, date.HasYear = y, true
	}
	return date, nil
}

// yearToken is a run of digits that starts neither a time of day nor a
// relative item: it may not be followed by ':', a meridiem or a unit.
func yearToken(s *Scanner) (int, error) {
	start := s.pos
	y, err := digits(s)
	if err != nil {
		return 0, err
	}
	if s.peekByte() == ':' {
		return 0, mismatch(start, "expected a year, found a time")
	}
	mark := s.pos
	_, isMeridiem, err := optional(s, lexeme(meridiem))
	if err != nil {
		return 0, err
	}
	s.pos = mark
	if isMeridiem {
		return 0, mismatch(start, "expected a year, found a time")
	}
	isUnit, err := unitFollows(s)
	if err != nil {
		return 0, err
	}
	if isUnit {
		return 0, mismatch(start, "expected a year, found a relative item")
	}
	return yearNumber(start, y)
}

// yearNumber converts a year, mapping two-digit years to 1969–2068.
func yearNumber(pos int, d string) (int, error) {
	y, err := number(pos, d, 9)
	if err != nil {
		return 0, err
	}
	if len(d) == 2 {
		if y >= 69 {
			y += 1900
		} else {
			y += 2000
		}
	}
	return y, nil
}

func monthNumber(s *Scanner) (time.Month, error) {
	start := s.pos
	d, err := digits(s)
	if err != nil {
		return 0, err
	}
	m, err := number(start, d, 2)
	if err != nil {
		return 0, err
	}
	if m < 1 || m > 12 {
		return 0, outOfRange(s, start, "month %d out of range", m)
	}
	return time.Month(m), nil
}

func dayNumber(s *Scanner) (int, error) {
	start := s.pos
	d, err := digits(s)
	if err != nil {
		return 0, err
	}
	day, err := number(start, d, 2)
	if err != nil {
		return 0, err
	}
	if day < 1 || day > 31 {
		return 0, outOfRange(s, start, "day %d out of range", day)
	}
	return day, nil
}

// further returns whichever of best and err got further into the input.
func further(best *Error, err error) *Error {
	e, ok := err.(*Error)
	if !ok {
		return best
	}
	if best == nil || e.reach >= best.reach {
		return e
	}
	return best
}
