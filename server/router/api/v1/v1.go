package v1

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/vnchrono/internal/profile"
	"github.com/hrygo/vnchrono/plugin/cache"
	"github.com/hrygo/vnchrono/plugin/chrono"
	"github.com/hrygo/vnchrono/plugin/metrics"
	apierrors "github.com/hrygo/vnchrono/server/internal/errors"
	"github.com/hrygo/vnchrono/server/internal/observability"
)

type APIV1Service struct {
	Profile *profile.Profile
	Logger  *slog.Logger
	Metrics *metrics.Aggregator
	// Cache is nil when caching is disabled.
	Cache *cache.Service

	recognizers []chrono.Recognizer
	scanner     *chrono.Scanner

	// batchSemaphore bounds documents scanned in parallel across batch requests.
	batchSemaphore *semaphore.Weighted
}

func NewAPIV1Service(profile *profile.Profile, logger *slog.Logger, recognizers []chrono.Recognizer) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	agg := metrics.NewAggregator()
	service := &APIV1Service{
		Profile:        profile,
		Logger:         logger,
		Metrics:        agg,
		recognizers:    recognizers,
		scanner:        chrono.NewScanner(recognizers, chrono.WithRecorder(agg), chrono.WithLogger(logger)),
		batchSemaphore: semaphore.NewWeighted(int64(max(profile.BatchConcurrency, 1))),
	}
	if profile.CacheCapacity > 0 {
		service.Cache = cache.NewService(cache.Config{
			Capacity: profile.CacheCapacity,
			TTL:      profile.CacheTTL,
		})
	}
	return service
}

// Close releases background resources.
func (s *APIV1Service) Close() {
	if s.Cache != nil {
		s.Cache.Close()
	}
}

// RegisterRoutes registers the API handlers under /api/v1.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo, middlewares ...echo.MiddlewareFunc) {
	g := echoServer.Group("/api/v1", middlewares...)
	g.GET("/recognizers", s.ListRecognizers)
	g.POST("/parse", s.ParseText)
	g.POST("/parse/batch", s.ParseBatch)
	g.POST("/parse/ics", s.ParseICS)
	g.POST("/extract", s.Extract)
	g.GET("/system/metrics/overview", s.GetMetricsOverview)
}

// withScanTimeout bounds ctx by the configured scan timeout.
func (s *APIV1Service) withScanTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Profile.ScanTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Profile.ScanTimeout)
}

func (s *APIV1Service) checkTextSize(text string) error {
	if limit := s.Profile.MaxTextBytes; limit > 0 && len(text) > limit {
		return apierrors.InputTooLarge(len(text), limit)
	}
	return nil
}

func parseReference(raw string) (time.Time, error) {
	ref, err := chrono.ParseReference(raw)
	if err != nil {
		return time.Time{}, apierrors.InvalidArgument("referenceDate %q must be RFC 3339 or YYYY-MM-DD", raw).WithDetail("field", "referenceDate")
	}
	return ref, nil
}

// ErrorHandler writes API errors as a JSON envelope with the status mapped
// from their code. Echo HTTP errors keep their status.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if stderrors.As(err, &httpErr) {
		code := apierrors.ErrCodeInvalidArgument
		switch {
		case httpErr.Code == http.StatusNotFound:
			code = apierrors.ErrCodeNotFound
		case httpErr.Code == http.StatusRequestEntityTooLarge:
			code = apierrors.ErrCodeInputTooLarge
		case httpErr.Code == http.StatusTooManyRequests:
			code = apierrors.ErrCodeRateLimitExceeded
		case httpErr.Code >= http.StatusInternalServerError:
			code = apierrors.ErrCodeInternal
		}
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		writeError(c, httpErr.Code, apierrors.Body{Code: code, Message: msg})
		return
	}

	apiErr := apierrors.From(err)
	reqCtx := observability.FromContextOrNew(c.Request().Context(), c.Path())
	if apiErr.Code == apierrors.ErrCodeInternal {
		reqCtx.Error("internal error", err)
	} else {
		reqCtx.Debug("request rejected",
			slog.String(observability.LogFieldErrorCode, string(apiErr.Code)),
			slog.String("message", apiErr.Message),
		)
	}
	writeError(c, apiErr.Code.HTTPStatus(), apiErr.Body())
}

func writeError(c echo.Context, status int, body apierrors.Body) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
	}
}
