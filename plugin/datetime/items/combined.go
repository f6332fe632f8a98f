package items

import (
	"unicode"
	"unicode/utf8"
)

// parseCombined matches an ISO 8601 date stamp followed by a time,
// separated by 'T' or by whitespace.
func parseCombined(s *Scanner) (CombinedDateTime, error) {
	d, err := isoDate(s)
	if err != nil {
		return CombinedDateTime{}, err
	}
	if !s.consume("T") && !s.consume("t") {
		r, _ := utf8.DecodeRuneInString(s.rest())
		if !unicode.IsSpace(r) {
			return CombinedDateTime{}, mismatch(s.pos, "expected 'T' or space between date and time")
		}
		s.skipWhitespace()
	}
	t, err := parseTime(s)
	if err != nil {
		return CombinedDateTime{}, err
	}
	return CombinedDateTime{Date: d, Time: t}, nil
}
