package v1

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/vnchrono/internal/profile"
	"github.com/hrygo/vnchrono/plugin/chrono"
	apierrors "github.com/hrygo/vnchrono/server/internal/errors"
)

const sampleText = "Đào tạo từ 08:30 đến 17:00 ngày 17/05/2014. Nghỉ thứ 7, 26/04/2014"

func TestParseText(t *testing.T) {
	e, _ := newTestServer(t, nil)
	body := fmt.Sprintf(`{"text":%q,"referenceDate":"2014-04-01"}`, sampleText)

	rec := doRequest(e, http.MethodPost, "/api/v1/parse", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[ParseResponse](t, rec)

	assert.False(t, resp.Cached)
	assert.Equal(t, time.Date(2014, 4, 1, 0, 0, 0, 0, time.UTC), resp.ReferenceDate)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "vn.time_in_date", first.Recognizer)
	assert.Equal(t, strings.Index(sampleText, "từ"), first.Index)
	assert.Equal(t, "từ 08:30 đến 17:00 ngày 17/05/2014", first.Text)
	assert.Equal(t, 8, first.Start.Hour)
	require.NotNil(t, first.End)
	assert.Equal(t, 17, first.End.Hour)

	second := resp.Results[1]
	assert.Equal(t, "vn.day_of_week", second.Recognizer)
	assert.Equal(t, "thứ 7, 26/04/2014", second.Text)
	assert.Equal(t, time.Saturday, second.Start.DayOfWeek)

	rec = doRequest(e, http.MethodPost, "/api/v1/parse", body)
	require.Equal(t, http.StatusOK, rec.Code)
	cached := decode[ParseResponse](t, rec)
	assert.True(t, cached.Cached)
	assert.Equal(t, resp.Results, cached.Results)
}

func TestParseText_ImplicitReferenceNotCached(t *testing.T) {
	e, _ := newTestServer(t, nil)
	body := `{"text":"thứ 7, 26/04/2014"}`

	for i := 0; i < 2; i++ {
		rec := doRequest(e, http.MethodPost, "/api/v1/parse", body)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[ParseResponse](t, rec)
		assert.False(t, resp.Cached)
		assert.False(t, resp.ReferenceDate.IsZero())
		require.Len(t, resp.Results, 1)
	}
}

func TestParseText_Markdown(t *testing.T) {
	e, _ := newTestServer(t, nil)
	source := "`thứ 7, 26/04/2014` và **thứ 7, 26/04/2014**"
	body := fmt.Sprintf(`{"text":%q,"format":"markdown","referenceDate":"2014-04-01"}`, source)

	rec := doRequest(e, http.MethodPost, "/api/v1/parse", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[ParseResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, strings.LastIndex(source, "thứ"), resp.Results[0].Index)
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   apierrors.ErrorCode
	}{
		{"empty body", "", http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"malformed", `{"text":`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"unknown field", `{"text":"x","lang":"vi"}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"trailing data", `{"text":"x"}{}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"bad format", `{"text":"x","format":"html"}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"bad reference", `{"text":"x","referenceDate":"hôm qua"}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"too large", `{"text":"` + strings.Repeat("a", 33) + `"}`, http.StatusRequestEntityTooLarge, apierrors.ErrCodeInputTooLarge},
	}
	e, _ := newTestServer(t, nil, func(p *profile.Profile) { p.MaxTextBytes = 32 })
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/api/v1/parse", tt.body)
			assertAPIError(t, rec, tt.status, tt.code)
		})
	}
}

func TestParseText_InvalidFormatNamesField(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := doRequest(e, http.MethodPost, "/api/v1/parse", `{"text":"x","format":"html"}`)
	body := assertAPIError(t, rec, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument)
	assert.Equal(t, "format", body.Details["field"])
}

// slowRecognizer matches every rune and sleeps before answering.
type slowRecognizer struct{}

var anyRune = chrono.MustCompileMatcher(`.`)

func (slowRecognizer) Name() string { return "test.slow" }

func (slowRecognizer) Pattern() *chrono.Matcher { return anyRune }

func (slowRecognizer) Extract(text string, offset int, ref time.Time, _ chrono.Options) chrono.Outcome {
	time.Sleep(20 * time.Millisecond)
	if offset >= len(text) {
		return chrono.NoMatch()
	}
	return chrono.Matched(&chrono.ParseResult{ReferenceDate: ref, Text: text[offset : offset+1], Index: offset})
}

func TestParseText_Timeout(t *testing.T) {
	e, _ := newTestServer(t, []chrono.Recognizer{slowRecognizer{}}, func(p *profile.Profile) {
		p.ScanTimeout = 5 * time.Millisecond
	})
	rec := doRequest(e, http.MethodPost, "/api/v1/parse", `{"text":"aaaaaaaa"}`)
	assertAPIError(t, rec, http.StatusGatewayTimeout, apierrors.ErrCodeTimeout)
}

func TestParseICS(t *testing.T) {
	e, _ := newTestServer(t, nil)
	body := fmt.Sprintf(`{"text":%q,"referenceDate":"2014-04-01"}`, sampleText)

	rec := doRequest(e, http.MethodPost, "/api/v1/parse/ics", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))

	out := rec.Body.String()
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "DTSTART:20140517T083000Z")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20140426")
}

func TestParseICS_NoResults(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := doRequest(e, http.MethodPost, "/api/v1/parse/ics", `{"text":"không có ngày"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
	assert.NotContains(t, rec.Body.String(), "VEVENT")
}

func TestParseBatch(t *testing.T) {
	e, _ := newTestServer(t, nil, func(p *profile.Profile) { p.BatchConcurrency = 2 })
	body := `{"referenceDate":"2014-04-01","documents":[
		{"id":"a","text":"thứ 7, 26/04/2014"},
		{"id":"b","text":"không có ngày"},
		{"id":"c","text":"` + "`thứ 7, 26/04/2014`" + ` **CN, 27/04/2014**","format":"markdown"},
		{"id":"d","text":"từ 08:30 - 17/05/2014 đến 16:30 - 25/05/2014"}
	]}`

	rec := doRequest(e, http.MethodPost, "/api/v1/parse/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[BatchResponse](t, rec)

	require.Len(t, resp.Documents, 4)
	var ids []string
	counts := map[string]int{}
	for _, d := range resp.Documents {
		ids = append(ids, d.ID)
		counts[d.ID] = len(d.Results)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
	assert.Equal(t, map[string]int{"a": 1, "b": 0, "c": 1, "d": 1}, counts)
	assert.Equal(t, time.Sunday, resp.Documents[2].Results[0].Start.DayOfWeek)
	assert.Equal(t, "vn.range_with_time", resp.Documents[3].Results[0].Recognizer)
}

func TestParseBatch_Errors(t *testing.T) {
	e, _ := newTestServer(t, nil, func(p *profile.Profile) { p.MaxTextBytes = 16 })
	tests := []struct {
		name   string
		body   string
		status int
		code   apierrors.ErrorCode
	}{
		{"no documents", `{"documents":[]}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"missing id", `{"documents":[{"text":"x"}]}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"bad format", `{"documents":[{"id":"a","text":"x","format":"rtf"}]}`, http.StatusBadRequest, apierrors.ErrCodeInvalidArgument},
		{"too large", `{"documents":[{"id":"a","text":"x"},{"id":"b","text":"` + strings.Repeat("b", 17) + `"}]}`, http.StatusRequestEntityTooLarge, apierrors.ErrCodeInputTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/api/v1/parse/batch", tt.body)
			assertAPIError(t, rec, tt.status, tt.code)
		})
	}
}
