// Package chrono defines the boundary between expression recognizers and the
// host that drives them over a text.
//
// A Recognizer is a pure function of (text, offset, reference date, options):
// it reports the leftmost occurrence of one textual shape at or after the
// offset as an Outcome. Recognizers hold only immutable state and are safe for
// concurrent use. The Scanner is the host loop that walks a text with a set of
// recognizers and collects their results.
//
// Offsets are byte offsets into the UTF-8 input.
package chrono

import "time"

// Recognizer detects one expression shape and converts it into a ParseResult.
type Recognizer interface {
	// Name identifies the recognizer in results, logs and metrics.
	Name() string

	// Pattern returns the compiled matcher of the recognizer.
	Pattern() *Matcher

	// Extract examines text starting at offset. It never returns an error:
	// an absent or invalid expression is reported through the Outcome status.
	// It panics if offset is outside text or not on a rune boundary.
	Extract(text string, offset int, ref time.Time, opt Options) Outcome
}
