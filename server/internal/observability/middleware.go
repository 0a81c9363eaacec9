package observability

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestRecorder receives the latency and outcome of every API request.
type RequestRecorder interface {
	RecordRequest(endpoint string, latency time.Duration, success bool)
}

// Middleware attaches a RequestContext to each request, logs its completion
// and reports it to recorder when non-nil. The request id is taken from the
// X-Request-ID response header when set by an earlier middleware.
func Middleware(logger *slog.Logger, recorder RequestRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			endpoint := c.Path()
			reqCtx := NewRequestContext(logger, id, endpoint)
			c.SetRequest(c.Request().WithContext(WithRequestContext(c.Request().Context(), reqCtx)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []slog.Attr{
				slog.Int(LogFieldStatus, status),
				slog.Int64(LogFieldDuration, reqCtx.DurationMs()),
			}
			switch {
			case status >= 500:
				reqCtx.Warn("request failed", attrs...)
			default:
				reqCtx.Debug("request completed", attrs...)
			}
			if recorder != nil {
				recorder.RecordRequest(endpoint, reqCtx.Duration(), status < 400)
			}
			return nil
		}
	}
}
