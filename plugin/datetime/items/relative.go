package items

import (
	"math"

	"github.com/hrygo/parsedate/plugin/datetime/calendar"
)

// parseRelative matches yesterday, today, now, tomorrow, or
// "[offset] unit [ago]". A missing offset counts as 1.
func parseRelative(s *Scanner) (RelativeOffset, error) {
	if n, ok, err := optional(s, lookup(dayWords, "day word")); err != nil {
		return RelativeOffset{}, err
	} else if ok {
		return RelativeOffset{Quantity: n, Unit: calendar.Day}, nil
	}

	start := s.pos
	n, ok, err := optional(s, offset)
	if err != nil {
		return RelativeOffset{}, err
	}
	if !ok {
		n = 1
	}
	u, err := lexeme(lookup(units, "unit"))(s)
	if err != nil {
		return RelativeOffset{}, err
	}
	if n > math.MaxInt64/u.factor || n < math.MinInt64/u.factor {
		return RelativeOffset{}, fatal(start, "relative offset %s out of range", s.src[start:s.pos])
	}
	q := n * u.factor

	_, ago, err := optional(s, lexeme(keyword("ago")))
	if err != nil {
		return RelativeOffset{}, err
	}
	if ago {
		if q == math.MinInt64 {
			return RelativeOffset{}, fatal(start, "relative offset %s out of range", s.src[start:s.pos])
		}
		q = -q
	}
	return RelativeOffset{Quantity: q, Unit: u.unit}, nil
}
