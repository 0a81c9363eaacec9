package chrono

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numberMatcher = MustCompileMatcher(`n(?P<value>[0-9]+)`)

func TestMatcher_Find(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		want   Span
		value  int
		found  bool
	}{
		{"whole text", "n42", 0, Span{Index: 0, Text: "n42"}, 42, true},
		{"boundaries excluded", "(n42)", 0, Span{Index: 1, Text: "n42"}, 42, true},
		{"case insensitive", "x N7 y", 0, Span{Index: 2, Text: "N7"}, 7, true},
		{"glued before", "xn42", 0, Span{}, 0, false},
		{"glued after", "n42x", 0, Span{}, 0, false},
		{"unicode letter before", "ưn42", 0, Span{}, 0, false},
		{"leftmost after offset", "n1 n2 n3", 2, Span{Index: 3, Text: "n2"}, 2, true},
		{"offset inside word", "an1 n2", 1, Span{Index: 4, Text: "n2"}, 2, true},
		{"offset after space", "a n1", 2, Span{Index: 2, Text: "n1"}, 1, true},
		{"offset at end", "n1", 2, Span{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := numberMatcher.Find(tt.text, tt.offset)
			require.Equal(t, tt.found, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, m.Span)
			assert.Equal(t, tt.value, m.Int("value"))
			assert.Equal(t, m.Span.Text, tt.text[m.Span.Index:m.Span.End()])
		})
	}
}

func TestMatcher_UnknownGroupPanics(t *testing.T) {
	m, ok := numberMatcher.Find("n1", 0)
	require.True(t, ok)
	assert.Panics(t, func() { m.String("missing") })
	assert.Panics(t, func() { m.Int("missing") })
}

func TestMatch_IntRequiresDigits(t *testing.T) {
	word := MustCompileMatcher(`w(?P<value>[a-z0-9]+)`)
	m, ok := word.Find("wab", 0)
	require.True(t, ok)
	assert.Equal(t, "ab", m.String("value"))
	assert.Panics(t, func() { m.Int("value") })

	m, ok = word.Find("w12", 0)
	require.True(t, ok)
	assert.Equal(t, 12, m.Int("value"))
}

func TestCheckBounds(t *testing.T) {
	text := "ứ1"
	assert.NotPanics(t, func() { CheckBounds(text, 0) })
	assert.NotPanics(t, func() { CheckBounds(text, len(text)) })
	assert.Panics(t, func() { CheckBounds(text, -1) })
	assert.Panics(t, func() { CheckBounds(text, len(text)+1) })
	assert.Panics(t, func() { CheckBounds(text, 1) })
}
