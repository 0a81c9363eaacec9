package chrono

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCalendar marks fields that do not survive calendar construction.
	ErrInvalidCalendar = errors.New("impossible calendar value")
	// ErrUnknownWeekday marks a weekday token missing from the lookup table.
	ErrUnknownWeekday = errors.New("unknown weekday")
)

// Construct builds a calendar value from numeric fields. Out-of-range inputs
// roll over (Feb 30 becomes Mar 2, hour 24 becomes the next day) and are not
// reported as errors; callers validate with Fields.Validate.
func Construct(year, month0, day, hour, minute int) time.Time {
	return time.Date(year, time.Month(month0+1), day, hour, minute, 0, 0, time.UTC)
}

// Fields is a set of calendar fields as written in the text, month 0-indexed.
type Fields struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// FieldsOf reads the fields back from a calendar value.
func FieldsOf(t time.Time) Fields {
	return Fields{
		Year:   t.Year(),
		Month:  int(t.Month()) - 1,
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

// Validate constructs the calendar value and requires it to reproduce every
// field exactly.
func (f Fields) Validate() (time.Time, error) {
	t := Construct(f.Year, f.Month, f.Day, f.Hour, f.Minute)
	if got := FieldsOf(t); got != f {
		return time.Time{}, errors.Wrapf(ErrInvalidCalendar,
			"%04d-%02d-%02d %02d:%02d", f.Year, f.Month+1, f.Day, f.Hour, f.Minute)
	}
	return t, nil
}

// DateComponents builds date-only components from a validated value.
func DateComponents(t time.Time, dayOfWeek time.Weekday) Components {
	f := FieldsOf(t)
	return Components{
		Day:       f.Day,
		Month:     f.Month,
		Year:      f.Year,
		DayOfWeek: dayOfWeek,
		Implied:   append([]Component(nil), DateImplied...),
	}
}

// DateTimeComponents builds components carrying hour and minute, with the
// weekday computed from the value.
func DateTimeComponents(t time.Time) Components {
	c := DateComponents(t, t.Weekday())
	c.Hour = t.Hour()
	c.Minute = t.Minute()
	c.HasTime = true
	return c
}
