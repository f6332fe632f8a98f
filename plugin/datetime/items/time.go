package items

// Time of day items:
//
//	20:02
//	20:02:00.000000
//	8:02pm, 8:02 p.m.
//	8pm
//	20:02-0500      zone correction
//	20:02 +05:30
func parseTime(s *Scanner) (TimeOfDay, error) {
	start := s.pos
	hd, err := digits(s)
	if err != nil {
		return TimeOfDay{}, err
	}
	hour, err := number(start, hd, 2)
	if err != nil {
		return TimeOfDay{}, err
	}

	if s.peekByte() != ':' {
		m, err := lexeme(meridiem)(s)
		if err != nil {
			return TimeOfDay{}, err
		}
		t := TimeOfDay{Hour: hour, Meridiem: m}
		return t, checkHour(s, start, t)
	}
	s.pos++

	t := TimeOfDay{Hour: hour}
	if t.Minute, err = sexagesimal(s, "minute"); err != nil {
		return TimeOfDay{}, err
	}
	if s.consume(":") {
		if t.Second, err = sexagesimal(s, "second"); err != nil {
			return TimeOfDay{}, err
		}
		if c := s.peekByte(); c == '.' || c == ',' {
			mark := s.pos
			s.pos++
			if frac := s.run(isDigit); frac != "" {
				t.Nanosecond = nanoseconds(frac)
			} else {
				s.pos = mark
			}
		}
	}

	mark := s.pos
	off, ok, err := optional(s, lexeme(zoneCorrection))
	if err != nil {
		return TimeOfDay{}, err
	}
	if ok {
		// A signed number followed by a unit is a relative item.
		rel, err := unitFollows(s)
		if err != nil {
			return TimeOfDay{}, err
		}
		if rel {
			s.pos, ok = mark, false
		}
	}
	if ok {
		t.Offset, t.HasOffset = off, true
	} else {
		m, ok, err := optional(s, lexeme(meridiem))
		if err != nil {
			return TimeOfDay{}, err
		}
		if ok {
			t.Meridiem = m
		}
	}
	return t, checkHour(s, start, t)
}

func checkHour(s *Scanner, pos int, t TimeOfDay) error {
	if t.Meridiem == NoMeridiem {
		if t.Hour > 23 {
			return outOfRange(s, pos, "hour %d out of range", t.Hour)
		}
		return nil
	}
	if t.Hour < 1 || t.Hour > 12 {
		return outOfRange(s, pos, "hour %d out of range for a 12-hour clock", t.Hour)
	}
	return nil
}

// sexagesimal reads a two-digit minute or second field.
func sexagesimal(s *Scanner, what string) (int, error) {
	start := s.pos
	d, err := digits(s)
	if err != nil {
		return 0, err
	}
	if len(d) != 2 {
		return 0, mismatch(start, "%s must have two digits", what)
	}
	n, _ := number(start, d, 2)
	if n > 59 {
		return 0, outOfRange(s, start, "%s %d out of range", what, n)
	}
	return n, nil
}

// nanoseconds converts fractional second digits, dropping any past the
// ninth.
func nanoseconds(frac string) int {
	ns := 0
	for i := 0; i < 9; i++ {
		ns *= 10
		if i < len(frac) {
			ns += int(frac[i] - '0')
		}
	}
	return ns
}

// meridiem matches am, pm, a.m. or p.m. as a whole word.
func meridiem(s *Scanner) (Meridiem, error) {
	start := s.pos
	var m Meridiem
	switch {
	case s.consumeFold("a"):
		m = AM
	case s.consumeFold("p"):
		m = PM
	default:
		return NoMeridiem, mismatch(start, "expected am or pm")
	}
	dotted := s.consume(".")
	if !s.consumeFold("m") || dotted && !s.consume(".") {
		return NoMeridiem, mismatch(start, "expected am or pm")
	}
	if isLetter(s.peekByte()) {
		return NoMeridiem, mismatch(start, "expected am or pm")
	}
	return m, nil
}

// zoneCorrection matches Z, ±HH, ±HHMM or ±HH:MM and returns seconds east
// of UTC.
func zoneCorrection(s *Scanner) (int, error) {
	start := s.pos
	sign := 1
	switch s.peekByte() {
	case 'Z', 'z':
		s.pos++
		if isLetter(s.peekByte()) {
			return 0, mismatch(start, "expected a zone correction")
		}
		return 0, nil
	case '+':
	case '-':
		sign = -1
	default:
		return 0, mismatch(start, "expected a zone correction")
	}
	s.pos++

	d, err := digits(s)
	if err != nil {
		return 0, err
	}
	var hh, mm int
	switch len(d) {
	case 1, 2:
		hh, _ = number(start, d, 2)
		if s.consume(":") {
			if mm, err = sexagesimal(s, "zone minute"); err != nil {
				return 0, err
			}
		}
	case 4:
		hh, _ = number(start, d[:2], 2)
		mm, _ = number(start, d[2:], 2)
	default:
		return 0, mismatch(start, "malformed zone correction %q", s.src[start:s.pos])
	}
	if hh > 24 || mm > 59 {
		return 0, outOfRange(s, start, "zone correction %q out of range", s.src[start:s.pos])
	}
	return sign * (hh*3600 + mm*60), nil
}
