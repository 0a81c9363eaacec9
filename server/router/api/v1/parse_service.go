package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/vnchrono/plugin/cache"
	"github.com/hrygo/vnchrono/plugin/chrono"
	"github.com/hrygo/vnchrono/plugin/chrono/ics"
	"github.com/hrygo/vnchrono/plugin/chrono/markdown"
	apierrors "github.com/hrygo/vnchrono/server/internal/errors"
	"github.com/hrygo/vnchrono/server/internal/observability"
)

const (
	formatPlain    = "plain"
	formatMarkdown = "markdown"
)

// ParseRequest is the body of the parse and ics endpoints.
type ParseRequest struct {
	Text          string `json:"text"`
	ReferenceDate string `json:"referenceDate,omitempty"`
	Format        string `json:"format,omitempty" validate:"omitempty,oneof=plain markdown"`
}

// ParseResponse lists the results found in one text.
type ParseResponse struct {
	ReferenceDate time.Time            `json:"referenceDate"`
	Results       []chrono.ParseResult `json:"results"`
	Cached        bool                 `json:"cached"`
}

// BatchDocument is one text of a batch request.
type BatchDocument struct {
	ID     string `json:"id" validate:"required"`
	Text   string `json:"text"`
	Format string `json:"format,omitempty" validate:"omitempty,oneof=plain markdown"`
}

// BatchRequest is the body of the batch endpoint.
type BatchRequest struct {
	Documents     []BatchDocument `json:"documents" validate:"required,min=1,max=100,dive"`
	ReferenceDate string          `json:"referenceDate,omitempty"`
}

// BatchResult holds the results of one document, in request order.
type BatchResult struct {
	ID      string               `json:"id"`
	Results []chrono.ParseResult `json:"results"`
}

// BatchResponse is the answer of the batch endpoint.
type BatchResponse struct {
	ReferenceDate time.Time     `json:"referenceDate"`
	Documents     []BatchResult `json:"documents"`
}

// ParseText scans a text with every registered recognizer.
// POST /api/v1/parse
func (s *APIV1Service) ParseText(c echo.Context) error {
	req, err := bindJSON[ParseRequest](c)
	if err != nil {
		return err
	}
	ref, err := s.resolveReference(req.ReferenceDate)
	if err != nil {
		return err
	}

	results, cached, err := s.scanText(c.Request().Context(), req.Format, req.Text, ref, req.ReferenceDate != "")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ParseResponse{ReferenceDate: ref, Results: results, Cached: cached})
}

// ParseICS scans a text and answers with an iCalendar document.
// POST /api/v1/parse/ics
func (s *APIV1Service) ParseICS(c echo.Context) error {
	req, err := bindJSON[ParseRequest](c)
	if err != nil {
		return err
	}
	ref, err := s.resolveReference(req.ReferenceDate)
	if err != nil {
		return err
	}

	results, _, err := s.scanText(c.Request().Context(), req.Format, req.Text, ref, req.ReferenceDate != "")
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := ics.Encode(&buf, results); err != nil {
		return apierrors.Internal(err)
	}
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

// ParseBatch scans several documents sharing one reference date.
// POST /api/v1/parse/batch
func (s *APIV1Service) ParseBatch(c echo.Context) error {
	req, err := bindJSON[BatchRequest](c)
	if err != nil {
		return err
	}
	ref, err := s.resolveReference(req.ReferenceDate)
	if err != nil {
		return err
	}
	for _, doc := range req.Documents {
		if err := s.checkTextSize(doc.Text); err != nil {
			return err
		}
	}

	out := make([]BatchResult, len(req.Documents))
	g, ctx := errgroup.WithContext(c.Request().Context())
	var acquireErr error
	for i, doc := range req.Documents {
		if acquireErr = s.batchSemaphore.Acquire(ctx, 1); acquireErr != nil {
			break
		}
		g.Go(func() error {
			defer s.batchSemaphore.Release(1)
			results, _, err := s.scanText(ctx, doc.Format, doc.Text, ref, req.ReferenceDate != "")
			if err != nil {
				return errors.Wrapf(err, "document %s", doc.ID)
			}
			out[i] = BatchResult{ID: doc.ID, Results: results}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if acquireErr != nil {
		return acquireErr
	}
	return c.JSON(http.StatusOK, BatchResponse{ReferenceDate: ref, Documents: out})
}

// resolveReference parses the reference date, using the current time when
// none is given.
func (s *APIV1Service) resolveReference(raw string) (time.Time, error) {
	ref, err := parseReference(raw)
	if err != nil {
		return time.Time{}, err
	}
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	return ref, nil
}

// scanText runs the scanner on one text under the scan timeout. Results are
// memoized only for explicit reference dates, since an implicit one changes
// on every request.
func (s *APIV1Service) scanText(ctx context.Context, format, text string, ref time.Time, cacheable bool) ([]chrono.ParseResult, bool, error) {
	if err := s.checkTextSize(text); err != nil {
		return nil, false, err
	}
	if format == "" {
		format = formatPlain
	}

	reqCtx := observability.FromContextOrNew(ctx, "scan")
	var key string
	if cacheable && s.Cache != nil {
		key = cache.Key(cache.Namespace("scan", format), ref.Format(time.RFC3339Nano), text)
		if raw, ok := s.Cache.Get(ctx, key); ok {
			var results []chrono.ParseResult
			if err := json.Unmarshal(raw, &results); err == nil {
				reqCtx.Debug("cache hit", slog.Int(observability.LogFieldTextLen, len(text)))
				return results, true, nil
			}
			s.Cache.Invalidate(ctx, key)
		}
	}

	scanCtx, cancel := s.withScanTimeout(ctx)
	defer cancel()

	var (
		results []chrono.ParseResult
		err     error
	)
	if format == formatMarkdown {
		results, err = markdown.Scan(scanCtx, s.scanner, text, ref)
	} else {
		results, err = s.scanner.Scan(scanCtx, text, ref)
	}
	if err != nil {
		return nil, false, err
	}

	reqCtx.Debug("scanned text",
		slog.Int(observability.LogFieldTextLen, len(text)),
		slog.Int(observability.LogFieldResultCount, len(results)),
		slog.String("format", format),
	)

	if key != "" {
		if raw, err := json.Marshal(results); err == nil {
			s.Cache.Set(ctx, key, raw)
		}
	}
	return results, false, nil
}
