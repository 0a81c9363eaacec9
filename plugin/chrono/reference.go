package chrono

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidReference is returned by ParseReference for an unreadable date.
var ErrInvalidReference = errors.New("invalid reference date")

var referenceLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseReference reads a reference date written as RFC 3339 or as a date
// with optional local time. Values without an offset are taken as UTC. An
// empty string yields the zero time, which Scan replaces with the clock.
func ParseReference(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range referenceLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrInvalidReference, "%q", s)
}
