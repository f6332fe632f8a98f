package items

import "strings"

// parseTimeZone matches TZ="rule". Once TZ=" has been read no other
// grammar can apply, so every later failure is committed. Inside the
// quotes only \\ and \" are escapes.
func parseTimeZone(s *Scanner) (TimeZoneOverride, error) {
	start := s.pos
	if !s.consume(`TZ="`) {
		return TimeZoneOverride{}, mismatch(start, `expected TZ="`)
	}
	var b strings.Builder
	for !s.Done() {
		c := s.src[s.pos]
		switch c {
		case '"':
			if b.Len() == 0 {
				return TimeZoneOverride{}, fatal(s.pos, "empty TZ string")
			}
			s.pos++
			return TimeZoneOverride{Raw: b.String()}, nil
		case '\\':
			if next := s.pos + 1; next < len(s.src) && (s.src[next] == '\\' || s.src[next] == '"') {
				b.WriteByte(s.src[next])
				s.pos += 2
				continue
			}
			return TimeZoneOverride{}, fatal(s.pos, "invalid escape in TZ string")
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return TimeZoneOverride{}, fatal(start, "unterminated TZ string")
}
