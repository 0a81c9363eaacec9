package vn

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

const (
	ws        = `[ \t\p{Zs}]+`
	weekdayRe = `(?P<weekday>` +
		`thứ` + ws + `[2-7]|chủ` + ws + `nhật|CN|T[2-7]|thu` + ws + `[2-7]|chu` + ws + `nhat|` +
		`thứ` + ws + `(?:hai|ba|tư|năm|sáu|bảy)|` +
		`thu` + ws + `(?:hai|ba|tu|nam|sau|bay))`
)

// dayOfWeekPattern matches "thứ 7, 26/04/2014".
var dayOfWeekPattern = chrono.MustCompileMatcher(
	weekdayRe + space + `,*` + space + datePattern(""),
)

// DayOfWeek recognizes a named weekday followed by a date.
//
// The reported weekday is the one named in the text. It is not checked
// against the weekday the date actually falls on.
type DayOfWeek struct{}

type dayOfWeekFields struct {
	weekday string
	date    chrono.Fields
}

func (DayOfWeek) Name() string { return "vn.day_of_week" }

func (DayOfWeek) Pattern() *chrono.Matcher { return dayOfWeekPattern }

func (DayOfWeek) fields(m chrono.Match) dayOfWeekFields {
	return dayOfWeekFields{
		weekday: m.String("weekday"),
		date:    dateFields(m, ""),
	}
}

// Extract reports the leftmost weekday-dated expression at or after offset.
func (r DayOfWeek) Extract(text string, offset int, ref time.Time, _ chrono.Options) chrono.Outcome {
	m, ok := dayOfWeekPattern.Find(text, offset)
	if !ok {
		return chrono.NoMatch()
	}

	f := r.fields(m)
	weekday, ok := LookupWeekday(f.weekday)
	if !ok {
		return chrono.Rejected(m.Span, errors.Wrapf(chrono.ErrUnknownWeekday, "%q", f.weekday))
	}
	date, err := f.date.Validate()
	if err != nil {
		return chrono.Rejected(m.Span, err)
	}

	return chrono.Matched(&chrono.ParseResult{
		ReferenceDate: ref,
		Recognizer:    r.Name(),
		Text:          m.Span.Text,
		Index:         m.Span.Index,
		Start:         chrono.DateComponents(date, weekday),
	})
}
