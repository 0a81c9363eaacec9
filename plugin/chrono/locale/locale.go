// Package locale renders parse results with CLDR weekday and month names.
package locale

import (
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/vi"
	"github.com/pkg/errors"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

// ErrUnsupportedLanguage is returned for a language other than vi or en.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Default is the language used when none is given.
const Default = "vi"

var translators = map[string]locales.Translator{
	"vi": vi.New(),
	"en": en.New(),
}

// Languages returns the supported language codes.
func Languages() []string {
	return []string{"vi", "en"}
}

// Lookup returns the translator for lang. An empty lang selects Default.
func Lookup(lang string) (locales.Translator, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = Default
	}
	t, ok := translators[lang]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedLanguage, "%q, want one of %s", lang, strings.Join(Languages(), ", "))
	}
	return t, nil
}

// WeekdayName returns the wide weekday name of day in lang.
func WeekdayName(lang string, day time.Weekday) (string, error) {
	t, err := Lookup(lang)
	if err != nil {
		return "", err
	}
	return t.WeekdayWide(day), nil
}

// Format renders c as "<weekday>, <long date>[ <short time>]". The weekday
// is the one carried by c, which may differ from the calendar weekday.
func Format(lang string, c chrono.Components) (string, error) {
	t, err := Lookup(lang)
	if err != nil {
		return "", err
	}
	return format(t, c), nil
}

// FormatResult renders the start of r and, for ranges, its end.
func FormatResult(lang string, r chrono.ParseResult) (string, error) {
	t, err := Lookup(lang)
	if err != nil {
		return "", err
	}
	s := format(t, r.Start)
	if r.End != nil {
		s += " - " + format(t, *r.End)
	}
	return s, nil
}

func format(t locales.Translator, c chrono.Components) string {
	at := c.Time()
	var b strings.Builder
	b.WriteString(t.WeekdayWide(c.DayOfWeek))
	b.WriteString(", ")
	b.WriteString(t.FmtDateLong(at))
	if c.HasTime {
		b.WriteByte(' ')
		b.WriteString(t.FmtTimeShort(at))
	}
	return b.String()
}
