package v1

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/vnchrono/internal/profile"
	"github.com/hrygo/vnchrono/plugin/chrono"
	"github.com/hrygo/vnchrono/plugin/chrono/vn"
	apierrors "github.com/hrygo/vnchrono/server/internal/errors"
)

func newTestServer(t *testing.T, recognizers []chrono.Recognizer, mutate ...func(*profile.Profile)) (*echo.Echo, *APIV1Service) {
	t.Helper()
	p := profile.Default()
	for _, m := range mutate {
		m(p)
	}
	require.NoError(t, p.Validate())

	if recognizers == nil {
		recognizers = vn.Recognizers()
	}
	s := NewAPIV1Service(p, slog.New(slog.NewTextHandler(io.Discard, nil)), recognizers)
	t.Cleanup(s.Close)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	s.RegisterRoutes(e)
	return e, s
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, code apierrors.ErrorCode) apierrors.Body {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[apierrors.Body](t, rec)
	assert.Equal(t, code, body.Code)
	return body
}

func TestListRecognizers(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := doRequest(e, http.MethodGet, "/api/v1/recognizers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ListRecognizersResponse](t, rec)
	var names []string
	for _, r := range resp.Recognizers {
		names = append(names, r.Name)
		assert.NotEmpty(t, r.Pattern)
	}
	assert.Equal(t, []string{"vn.range_with_time", "vn.time_in_date", "vn.day_of_week"}, names)
}

func TestUnknownRoute(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := doRequest(e, http.MethodGet, "/api/v1/nope", "")
	assertAPIError(t, rec, http.StatusNotFound, apierrors.ErrCodeNotFound)
}

func TestGetMetricsOverview(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := doRequest(e, http.MethodPost, "/api/v1/parse", `{"text":"thứ 7, 31/02/2014 và thứ 7, 26/04/2014","referenceDate":"2014-04-01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/system/metrics/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Recognizers map[string]struct {
			Matched  int64 `json:"matched"`
			Rejected int64 `json:"rejected"`
		} `json:"recognizers"`
		Cache *struct {
			Size int `json:"size"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	stat := resp.Recognizers["vn.day_of_week"]
	assert.Equal(t, int64(1), stat.Matched)
	assert.Equal(t, int64(1), stat.Rejected)
	require.NotNil(t, resp.Cache)
	assert.Equal(t, 1, resp.Cache.Size)
}
