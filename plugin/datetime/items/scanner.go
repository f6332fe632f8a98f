// Package items implements the item grammars of GNU date strings.
//
// A date string is a sequence of items separated by optional whitespace and
// parenthesized comments. Each grammar recognizes one category of item and
// yields an immutable Item; Parse tries the grammars in a fixed order.
package items

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error reports that the input does not match the grammar at Pos.
type Error struct {
	Pos int
	Msg string

	// reach is how far the grammar read before failing. It ranks the
	// failures of competing grammars and is past Pos for out of range
	// fields, which are reported at their start.
	reach int

	// committed errors are raised after a grammar has matched enough input
	// to rule out every alternative.
	committed bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Pos)
}

// Committed reports whether no other grammar may be tried after e.
func (e *Error) Committed() bool {
	return e.committed
}

func mismatch(pos int, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...), reach: pos}
}

// outOfRange reports a well-formed field starting at pos whose value is
// not allowed. The cursor is at the end of the field.
func outOfRange(s *Scanner, pos int, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...), reach: s.pos}
}

func fatal(pos int, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...), reach: pos, committed: true}
}

func isCommitted(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.committed
}

// Scanner is a cursor over a date string.
type Scanner struct {
	src string
	pos int
}

// NewScanner returns a Scanner positioned at the start of src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Pos returns the byte offset of the cursor.
func (s *Scanner) Pos() int {
	return s.pos
}

// Done reports whether the whole input has been consumed.
func (s *Scanner) Done() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) rest() string {
	return s.src[s.pos:]
}

// SkipSpace consumes any interleaving of whitespace and comments. It never
// fails on zero consumption; an unterminated comment is a committed error.
func (s *Scanner) SkipSpace() error {
	for {
		s.skipWhitespace()
		if !strings.HasPrefix(s.rest(), "(") {
			return nil
		}
		if err := s.comment(); err != nil {
			return err
		}
	}
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.rest())
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

// comment consumes a balanced parenthesized comment starting at '('.
// Parentheses are ASCII, so a byte scan cannot split a multi-byte rune.
func (s *Scanner) comment() error {
	open := s.pos
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '(':
			if err := s.comment(); err != nil {
				return err
			}
		case ')':
			s.pos++
			return nil
		default:
			s.pos++
		}
	}
	return fatal(open, "unterminated comment")
}

// lexeme wraps a token parser so that it skips leading whitespace and
// comments first. Every token is read through it.
func lexeme[T any](p func(*Scanner) (T, error)) func(*Scanner) (T, error) {
	return func(s *Scanner) (T, error) {
		if err := s.SkipSpace(); err != nil {
			var zero T
			return zero, err
		}
		return p(s)
	}
}

// attempt runs p and rewinds the cursor when p fails without committing.
func attempt[T any](s *Scanner, p func(*Scanner) (T, error)) (T, error) {
	mark := s.pos
	v, err := p(s)
	if err != nil && !isCommitted(err) {
		s.pos = mark
	}
	return v, err
}

// optional runs p and reports whether it matched. Committed errors are
// returned; other failures rewind and yield ok == false.
func optional[T any](s *Scanner, p func(*Scanner) (T, error)) (v T, ok bool, err error) {
	v, err = attempt(s, p)
	if err == nil {
		return v, true, nil
	}
	if isCommitted(err) {
		return v, false, err
	}
	return v, false, nil
}

func (s *Scanner) peekByte() byte {
	if s.Done() {
		return 0
	}
	return s.src[s.pos]
}

// consume advances past lit if the input continues with it.
func (s *Scanner) consume(lit string) bool {
	if strings.HasPrefix(s.rest(), lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

// consumeFold is consume with ASCII case folding.
func (s *Scanner) consumeFold(lit string) bool {
	if len(s.rest()) >= len(lit) && strings.EqualFold(s.src[s.pos:s.pos+len(lit)], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

func (s *Scanner) run(pred func(byte) bool) string {
	start := s.pos
	for s.pos < len(s.src) && pred(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// char matches a single literal byte.
func char(c byte) func(*Scanner) (byte, error) {
	return func(s *Scanner) (byte, error) {
		if s.peekByte() != c || s.Done() {
			return 0, mismatch(s.pos, "expected %q", c)
		}
		s.pos++
		return c, nil
	}
}

// digits matches a run of one or more decimal digits.
func digits(s *Scanner) (string, error) {
	d := s.run(isDigit)
	if d == "" {
		return "", mismatch(s.pos, "expected digits")
	}
	return d, nil
}

// word matches a run of one or more ASCII letters.
func word(s *Scanner) (string, error) {
	w := s.run(isLetter)
	if w == "" {
		return "", mismatch(s.pos, "expected a word")
	}
	return w, nil
}

// keyword matches a whole word equal to kw, ignoring case.
func keyword(kw string) func(*Scanner) (string, error) {
	return func(s *Scanner) (string, error) {
		start := s.pos
		w, err := word(s)
		if err != nil {
			return "", err
		}
		if !strings.EqualFold(w, kw) {
			return "", mismatch(start, "expected %q", kw)
		}
		return w, nil
	}
}

// decInt matches an optionally signed decimal integer.
func decInt(s *Scanner) (int64, error) {
	start := s.pos
	if c := s.peekByte(); c == '+' || c == '-' {
		s.pos++
	}
	if _, err := digits(s); err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s.src[start:s.pos], 10, 64)
	if err != nil {
		return 0, mismatch(start, "number %s out of range", s.src[start:s.pos])
	}
	return n, nil
}

// number converts a digit run of at most max digits.
func number(pos int, d string, max int) (int, error) {
	if len(d) > max {
		return 0, mismatch(pos, "too many digits in %q", d)
	}
	n := 0
	for i := 0; i < len(d); i++ {
		n = n*10 + int(d[i]-'0')
	}
	return n, nil
}
