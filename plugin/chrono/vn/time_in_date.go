package vn

import (
	"time"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

// timeInDatePattern matches "từ 08:30 đến 17:00 ngày 17/05/2014".
var timeInDatePattern = chrono.MustCompileMatcher(
	fromKw + space + clockPattern("from") + space + toKw + space + clockPattern("to") +
		space + dateKw + space + datePattern(""),
)

// TimeInDate recognizes a time range within a single date.
type TimeInDate struct{}

type timeInDateFields struct {
	date     chrono.Fields
	from, to chrono.Fields
}

func (TimeInDate) Name() string { return "vn.time_in_date" }

func (TimeInDate) Pattern() *chrono.Matcher { return timeInDatePattern }

func (TimeInDate) fields(m chrono.Match) timeInDateFields {
	date := dateFields(m, "")
	return timeInDateFields{
		date: date,
		from: withClock(date, m, "from"),
		to:   withClock(date, m, "to"),
	}
}

// Extract reports the leftmost same-day range at or after offset. Both times
// are validated against the shared date.
func (r TimeInDate) Extract(text string, offset int, ref time.Time, _ chrono.Options) chrono.Outcome {
	m, ok := timeInDatePattern.Find(text, offset)
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
