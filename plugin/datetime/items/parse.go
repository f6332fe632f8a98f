package items

import (
	"iter"
	"strings"
	"unicode"
)

// grammars in the order Parse tries them. Combined stamps precede plain
// dates so the time part is not left behind.
var grammars = []func(*Scanner) (Item, error){
	asItem(parseCombined),
	asItem(parseDate),
	asItem(parseTime),
	asItem(parseRelative),
	asItem(parseWeekday),
	asItem(parseTimeZone),
}

func asItem[T Item](p func(*Scanner) (T, error)) func(*Scanner) (Item, error) {
	return func(s *Scanner) (Item, error) {
		v, err := p(s)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Parse reads the next item after any whitespace and comments.
//
// The first grammar to match wins. A committed failure stops the search;
// otherwise, if nothing matches, the failure that read furthest into the
// input is returned. Errors are always *Error.
func Parse(s *Scanner) (Item, error) {
	if err := s.SkipSpace(); err != nil {
		return nil, err
	}
	start := s.pos
	var furthest *Error
	for _, g := range grammars {
		it, err := attempt(s, g)
		if err == nil {
			return it, nil
		}
		if isCommitted(err) {
			return nil, err
		}
		if e, ok := err.(*Error); ok && (furthest == nil || e.reach > furthest.reach) {
			furthest = e
		}
	}
	if furthest == nil || furthest.reach == start {
		return nil, mismatch(start, "unrecognized item %q", token(s.rest()))
	}
	return nil, furthest
}

// token returns the leading run of src up to whitespace or a comment.
func token(src string) string {
	if i := strings.IndexFunc(src, func(r rune) bool { return unicode.IsSpace(r) || r == '(' }); i > 0 {
		return src[:i]
	}
	return src
}

// All returns the items of input in order. Iteration stops after the first
// error, which is yielded with a nil Item.
func All(input string) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		s := NewScanner(input)
		for {
			if err := s.SkipSpace(); err != nil {
				yield(nil, err)
				return
			}
			if s.Done() {
				return
			}
			it, err := Parse(s)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(it, nil) {
				return
			}
		}
	}
}
