package locale

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

func TestWeekdayName(t *testing.T) {
	tests := []struct {
		lang string
		day  time.Weekday
		want string
	}{
		{"vi", time.Sunday, "Chủ Nhật"},
		{"vi", time.Saturday, "Thứ Bảy"},
		{"", time.Monday, "Thứ Hai"},
		{"EN", time.Saturday, "Saturday"},
	}
	for _, tt := range tests {
		got, err := WeekdayName(tt.lang, tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormat(t *testing.T) {
	date := chrono.DateComponents(chrono.Construct(2014, 3, 26, 0, 0), time.Saturday)
	dateTime := chrono.DateTimeComponents(chrono.Construct(2014, 4, 17, 8, 30))

	tests := []struct {
		name string
		lang string
		c    chrono.Components
		want string
	}{
		{"vi date", "vi", date, "Thứ Bảy, 26 tháng 4, 2014"},
		{"en date", "en", date, "Saturday, April 26, 2014"},
		{"vi date time", "vi", dateTime, "Thứ Bảy, 17 tháng 5, 2014 08:30"},
		{"en date time", "en", dateTime, "Saturday, May 17, 2014 8:30 am"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.lang, tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_TrustsCarriedWeekday(t *testing.T) {
	// 26/04/2014 is a Saturday; the label says Monday.
	c := chrono.DateComponents(chrono.Construct(2014, 3, 26, 0, 0), time.Monday)
	got, err := Format("en", c)
	require.NoError(t, err)
	assert.Equal(t, "Monday, April 26, 2014", got)
}

func TestFormatResult_Range(t *testing.T) {
	start := chrono.DateTimeComponents(chrono.Construct(2014, 4, 17, 8, 30))
	end := chrono.DateTimeComponents(chrono.Construct(2014, 4, 17, 17, 0))
	got, err := FormatResult("vi", chrono.ParseResult{Start: start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, "Thứ Bảy, 17 tháng 5, 2014 08:30 - Thứ Bảy, 17 tháng 5, 2014 17:00", got)
}

func TestLookup_Unsupported(t *testing.T) {
	_, err := Lookup("fr")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Contains(t, err.Error(), "vi, en")

	_, err = Format("de", chrono.Components{})
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	assert.Contains(t, langs, Default)
	for _, lang := range langs {
		_, err := Lookup(strings.ToUpper(lang))
		assert.NoError(t, err, lang)
	}
}
