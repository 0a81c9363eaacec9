package chrono

import (
	"encoding/json"
	"time"
)

// Component names a calendar granularity.
type Component string

const (
	ComponentDay    Component = "day"
	ComponentMonth  Component = "month"
	ComponentYear   Component = "year"
	ComponentHour   Component = "hour"
	ComponentMinute Component = "minute"
)

// DateImplied is the implied component list of a combined DD/MM/YYYY token.
var DateImplied = []Component{ComponentDay, ComponentMonth, ComponentYear}

// Components is one side (start or end) of a parse result.
// Month is 0-indexed (January = 0).
type Components struct {
	Day     int
	Month   int
	Year    int
	Hour    int
	Minute  int
	HasTime bool

	DayOfWeek time.Weekday
	Implied   []Component
}

// Time returns the components as a UTC time value.
func (c Components) Time() time.Time {
	return Construct(c.Year, c.Month, c.Day, c.Hour, c.Minute)
}

type componentsJSON struct {
	Day               int         `json:"day"`
	Month             int         `json:"month"`
	Year              int         `json:"year"`
	Hour              *int        `json:"hour,omitempty"`
	Minute            *int        `json:"minute,omitempty"`
	DayOfWeek         int         `json:"dayOfWeek"`
	ImpliedComponents []Component `json:"impliedComponents"`
}

// MarshalJSON encodes the components in the host result shape; hour and minute
// are omitted when the expression carried no time.
func (c Components) MarshalJSON() ([]byte, error) {
	out := componentsJSON{
		Day:               c.Day,
		Month:             c.Month,
		Year:              c.Year,
		DayOfWeek:         int(c.DayOfWeek),
		ImpliedComponents: c.Implied,
	}
	if c.HasTime {
		hour, minute := c.Hour, c.Minute
		out.Hour = &hour
		out.Minute = &minute
	}
	if out.ImpliedComponents == nil {
		out.ImpliedComponents = []Component{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the host result shape.
func (c *Components) UnmarshalJSON(data []byte) error {
	var in componentsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = Components{
		Day:       in.Day,
		Month:     in.Month,
		Year:      in.Year,
		DayOfWeek: time.Weekday(in.DayOfWeek),
		Implied:   in.ImpliedComponents,
	}
	if in.Hour != nil {
		c.HasTime = true
		c.Hour = *in.Hour
	}
	if in.Minute != nil {
		c.HasTime = true
		c.Minute = *in.Minute
	}
	return nil
}

// Span is a recognized substring and its byte offset in the original input.
type Span struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// End returns the byte offset just past the span.
func (s Span) End() int {
	return s.Index + len(s.Text)
}

// ParseResult is the structured output of a successful recognition.
type ParseResult struct {
	ReferenceDate time.Time   `json:"referenceDate"`
	Recognizer    string      `json:"recognizer"`
	Text          string      `json:"text"`
	Index         int         `json:"index"`
	Start         Components  `json:"start"`
	End           *Components `json:"end,omitempty"`
}

// Span returns the matched span of the result.
func (r *ParseResult) Span() Span {
	return Span{Index: r.Index, Text: r.Text}
}

// Status is the variant of an Outcome.
type Status int

const (
	// StatusNoMatch means the pattern does not occur at or after the offset.
	StatusNoMatch Status = iota
	// StatusMatched means a validated result was produced.
	StatusMatched
	// StatusRejected means the pattern matched but the fields failed validation.
	StatusRejected
)

var statusNames = [...]string{
	StatusNoMatch:  "no_match",
	StatusMatched:  "matched",
	StatusRejected: "rejected",
}

func (s Status) String() string {
	if int(s) >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// MarshalJSON encodes the status as its name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Outcome is the result of one recognizer invocation.
//
// Rejected outcomes carry the syntactic span and the reason for diagnostics;
// callers interested only in results treat them exactly like NoMatch.
type Outcome struct {
	Status Status
	Span   Span
	Reason error

	result *ParseResult
}

// NoMatch returns the no-match outcome.
func NoMatch() Outcome {
	return Outcome{Status: StatusNoMatch}
}

// Matched wraps a validated result.
func Matched(r *ParseResult) Outcome {
	return Outcome{Status: StatusMatched, Span: r.Span(), result: r}
}

// Rejected reports a syntactic match discarded by validation.
func Rejected(span Span, reason error) Outcome {
	return Outcome{Status: StatusRejected, Span: span, Reason: reason}
}

// Result returns the parse result for matched outcomes.
func (o Outcome) Result() (*ParseResult, bool) {
	if o.Status != StatusMatched {
		return nil, false
	}
	return o.result, true
}

// Options is the configuration bag a host threads through recognizers.
type Options map[string]string
