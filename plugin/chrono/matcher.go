package chrono

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Boundary groups wrapped around every recognizer pattern. They are consumed
// by the match but never reported in the span.
const (
	leadGroup  = "lead"
	trailGroup = "trail"

	leadBoundary  = `(?P<lead>^|[^\p{L}\p{N}_])`
	trailBoundary = `(?P<trail>[^\p{L}\p{N}_]|$)`
)

// Matcher is a compiled, case-insensitive recognizer pattern bounded by
// non-word runes or the ends of the input. It is safe for concurrent use.
type Matcher struct {
	re    *regexp.Regexp
	lead  int
	trail int
}

// MustCompileMatcher compiles body between the boundary groups. Named groups
// in body become fields readable from a Match.
func MustCompileMatcher(body string) *Matcher {
	re := regexp.MustCompile(`(?i)` + leadBoundary + body + trailBoundary)
	return &Matcher{
		re:    re,
		lead:  re.SubexpIndex(leadGroup),
		trail: re.SubexpIndex(trailGroup),
	}
}

// String returns the pattern source.
func (m *Matcher) String() string {
	return m.re.String()
}

// Match is one syntactic match with its named fields.
type Match struct {
	Span Span

	m      *Matcher
	values []string
}

// String returns the named field, or "" if it did not participate.
func (mt Match) String(name string) string {
	i := mt.m.re.SubexpIndex(name)
	if i < 0 {
		panic(fmt.Sprintf("chrono: pattern has no group %q", name))
	}
	return mt.values[i]
}

// Int returns the named numeric field. It panics when the field is not a
// decimal integer, so patterns must only read digit groups with Int.
func (mt Match) Int(name string) int {
	n, err := strconv.Atoi(mt.String(name))
	if err != nil {
		panic(fmt.Sprintf("chrono: group %q is not numeric: %v", name, err))
	}
	return n
}

// Find returns the leftmost match at or after offset. A match whose leading
// boundary is the start of the searched slice only counts when the rune
// before offset is not a word rune.
func (m *Matcher) Find(text string, offset int) (Match, bool) {
	CheckBounds(text, offset)

	for pos := offset; pos < len(text); {
		loc := m.re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return Match{}, false
		}
		start := pos + loc[2*m.lead+1]
		if loc[2*m.lead] == loc[2*m.lead+1] && start > 0 {
			if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
				_, w := utf8.DecodeRuneInString(text[start:])
				pos = start + w
				continue
			}
		}
		end := pos + loc[2*m.trail]

		values := make([]string, len(loc)/2)
		for i := range values {
			if loc[2*i] >= 0 {
				values[i] = text[pos+loc[2*i] : pos+loc[2*i+1]]
			}
		}
		return Match{
			Span:   Span{Index: start, Text: text[start:end]},
			m:      m,
			values: values,
		}, true
	}
	return Match{}, false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// CheckBounds panics unless offset lies on a rune boundary within text.
// An invalid offset is a host bug, not an absent expression.
func CheckBounds(text string, offset int) {
	if err := ValidateOffset(text, offset); err != nil {
		panic("chrono: " + err.Error())
	}
}

// ValidateOffset reports why offset cannot be passed to Extract for text.
// Offsets from 0 to len(text) on a rune boundary are valid.
func ValidateOffset(text string, offset int) error {
	if offset < 0 || offset > len(text) {
		return fmt.Errorf("offset %d out of range [0, %d]", offset, len(text))
	}
	if offset < len(text) && !utf8.RuneStart(text[offset]) {
		return fmt.Errorf("offset %d is not on a rune boundary", offset)
	}
	return nil
}
