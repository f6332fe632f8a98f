package items

// ordinals maps ordinal words to signed offsets. Lookup is case-sensitive.
// "second" is deliberately absent: it is the seconds unit.
var ordinals = map[string]int64{
	"last":     -1,
	"this":     0,
	"next":     1,
	"first":    1,
	"third":    3,
	"fourth":   4,
	"fifth":    5,
	"sixth":    6,
	"seventh":  7,
	"eighth":   8,
	"ninth":    9,
	"tenth":    10,
	"eleventh": 11,
	"twelfth":  12,
}

// offset resolves an ordinal word or, failing that, a signed decimal
// integer. Leading space is the caller's business.
func offset(s *Scanner) (int64, error) {
	n, ok, err := optional(s, textOffset)
	if err != nil {
		return 0, err
	}
	if ok {
		return n, nil
	}
	return decInt(s)
}

func textOffset(s *Scanner) (int64, error) {
	start := s.pos
	w, err := word(s)
	if err != nil {
		return 0, err
	}
	n, ok := ordinals[w]
	if !ok {
		return 0, mismatch(start, "unknown ordinal %q", w)
	}
	return n, nil
}
