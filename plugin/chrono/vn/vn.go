// Package vn recognizes Vietnamese date and time expressions:
//
//   - "từ 08:30 - 17/05/2014 đến 16:30 - 25/05/2014" (RangeWithTime)
//   - "từ 08:30 đến 17:00 ngày 17/05/2014" (TimeInDate)
//   - "thứ 7, 26/04/2014" (DayOfWeek)
//
// Every recognizer is stateless and safe for concurrent use. Dates are always
// written as one numeric DD/MM/YYYY token, so each result reports day, month
// and year as implied components.
package vn

import (
	"fmt"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

// Pattern fragments shared by the recognizers.
const (
	space   = `[\s\p{Zs}]*`
	fromKw  = `(?:từ|tu)`
	toKw    = `(?:đến|den)`
	dateKw  = `(?:ngày|ngay)`
	dashSep = space + `-` + space
)

// clockPattern matches HH:MM with '.', ':' or a fullwidth colon, naming the
// groups <prefix>Hour and <prefix>Minute.
func clockPattern(prefix string) string {
	return fmt.Sprintf(`(?P<%[1]sHour>[0-9]{1,2})[.:：](?P<%[1]sMinute>[0-9]{1,2})`, prefix)
}

// datePattern matches DD/MM/YYYY or DD/MM/YY with '/', '.' or '-', naming the
// groups <prefix>Day, <prefix>Month and <prefix>Year.
func datePattern(prefix string) string {
	return fmt.Sprintf(`(?P<%[1]sDay>[0-9]{1,2})[/.-](?P<%[1]sMonth>[0-9]{1,2})[/.-](?P<%[1]sYear>[0-9]{4}|[0-9]{2})`, prefix)
}

// NormalizeYear expands a year below 100 with a pivot at 50: 51..99 map to
// the 1900s, 0..50 to the 2000s.
func NormalizeYear(year int) int {
	if year >= 100 {
		return year
	}
	if year > 50 {
		return year + 1900
	}
	return year + 2000
}

// dateFields reads a date triple, month converted to 0-indexed.
func dateFields(m chrono.Match, prefix string) chrono.Fields {
	return chrono.Fields{
		Day:   m.Int(prefix + "Day"),
		Month: m.Int(prefix+"Month") - 1,
		Year:  NormalizeYear(m.Int(prefix + "Year")),
	}
}

// withClock sets hour and minute on a copy of f.
func withClock(f chrono.Fields, m chrono.Match, prefix string) chrono.Fields {
	f.Hour = m.Int(prefix + "Hour")
	f.Minute = m.Int(prefix + "Minute")
	return f
}

var registry = []chrono.Recognizer{
	RangeWithTime{},
	TimeInDate{},
	DayOfWeek{},
}

// Recognizers returns the Vietnamese recognizers in registration order.
func Recognizers() []chrono.Recognizer {
	return append([]chrono.Recognizer(nil), registry...)
}

// Lookup returns the recognizer registered under name.
func Lookup(name string) (chrono.Recognizer, bool) {
	for _, r := range registry {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}
