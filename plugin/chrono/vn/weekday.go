package vn

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// weekdaySpellings lists every accepted spelling per weekday offset
// (0 = Sunday). Keys are stored folded by foldWeekday.
var weekdaySpellings = []struct {
	day       time.Weekday
	spellings []string
}{
	{time.Sunday, []string{"chủ nhật", "chu nhat", "CN"}},
	{time.Monday, []string{"thứ 2", "thu 2", "T2", "thứ hai", "thu hai"}},
	{time.Tuesday, []string{"thứ 3", "thu 3", "T3", "thứ ba", "thu ba"}},
	{time.Wednesday, []string{"thứ 4", "thu 4", "T4", "thứ tư", "thu tu"}},
	{time.Thursday, []string{"thứ 5", "thu 5", "T5", "thứ năm", "thu nam"}},
	{time.Friday, []string{"thứ 6", "thu 6", "T6", "thứ sáu", "thu sau"}},
	{time.Saturday, []string{"thứ 7", "thu 7", "T7", "thứ bảy", "thu bay"}},
}

var weekdayOffsets = buildWeekdayOffsets()

func buildWeekdayOffsets() map[string]time.Weekday {
	offsets := make(map[string]time.Weekday)
	for _, w := range weekdaySpellings {
		for _, s := range w.spellings {
			key := foldWeekday(s)
			if prev, ok := offsets[key]; ok && prev != w.day {
				panic("vn: weekday spelling " + s + " maps to two offsets")
			}
			offsets[key] = w.day
		}
	}
	return offsets
}

// foldWeekday normalizes a weekday token for lookup: Unicode case folding,
// NFC composition and single-space separation.
func foldWeekday(s string) string {
	s = norm.NFC.String(cases.Fold().String(s))
	return strings.Join(strings.Fields(s), " ")
}

// LookupWeekday resolves a weekday token. Unknown tokens report false and
// never fall back to a default day.
func LookupWeekday(token string) (time.Weekday, bool) {
	d, ok := weekdayOffsets[foldWeekday(token)]
	return d, ok
}

// WeekdaySpellings returns all accepted spellings of day.
func WeekdaySpellings(day time.Weekday) []string {
	for _, w := range weekdaySpellings {
		if w.day == day {
			return append([]string(nil), w.spellings...)
		}
	}
	return nil
}
