package vn

import (
	"time"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

// rangeWithTimePattern matches "từ 08:30 - 17/05/2014 đến 16:30 - 25/05/2014".
var rangeWithTimePattern = chrono.MustCompileMatcher(
	fromKw + space + clockPattern("from") + dashSep + datePattern("from") +
		space + toKw + space + clockPattern("to") + dashSep + datePattern("to"),
)

// RangeWithTime recognizes a range between two time-stamped dates.
type RangeWithTime struct{}

type rangeWithTimeFields struct {
	from chrono.Fields
	to   chrono.Fields
}

func (RangeWithTime) Name() string { return "vn.range_with_time" }

func (RangeWithTime) Pattern() *chrono.Matcher { return rangeWithTimePattern }

func (RangeWithTime) fields(m chrono.Match) rangeWithTimeFields {
	return rangeWithTimeFields{
		from: withClock(dateFields(m, "from"), m, "from"),
		to:   withClock(dateFields(m, "to"), m, "to"),
	}
}

// Extract reports the leftmost range at or after offset. Either side failing
// calendar validation rejects the whole match.
func (r RangeWithTime) Extract(text string, offset int, ref time.Time, _ chrono.Options) chrono.Outcome {
	m, ok := rangeWithTimePattern.Find(text, offset)
	if !ok {
		return chrono.NoMatch()
	}

	f := r.fields(m)
	from, err := f.from.Validate()
	if err != nil {
		return chrono.Rejected(m.Span, err)
	}
	to, err := f.to.Validate()
	if err != nil {
		return chrono.Rejected(m.Span, err)
	}

	end := chrono.DateTimeComponents(to)
	return chrono.Matched(&chrono.ParseResult{
		ReferenceDate: ref,
		Recognizer:    r.Name(),
		Text:          m.Span.Text,
		Index:         m.Span.Index,
		Start:         chrono.DateTimeComponents(from),
		End:           &end,
	})
}
