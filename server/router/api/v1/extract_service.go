package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/vnchrono/plugin/chrono"
	apierrors "github.com/hrygo/vnchrono/server/internal/errors"
	"github.com/hrygo/vnchrono/server/internal/observability"
)

// ExtractRequest invokes one recognizer once.
type ExtractRequest struct {
	Recognizer    string `json:"recognizer" validate:"required"`
	Text          string `json:"text"`
	Offset        int    `json:"offset"`
	ReferenceDate string `json:"referenceDate,omitempty"`
}

// ExtractResponse mirrors chrono.Outcome.
type ExtractResponse struct {
	Status chrono.Status       `json:"status"`
	Result *chrono.ParseResult `json:"result,omitempty"`
	Span   *chrono.Span        `json:"span,omitempty"`
	Reason string              `json:"reason,omitempty"`
}

// Extract runs a single recognizer from an offset and reports its outcome,
// rejected matches included.
// POST /api/v1/extract
func (s *APIV1Service) Extract(c echo.Context) error {
	req, err := bindJSON[ExtractRequest](c)
	if err != nil {
		return err
	}
	r, ok := s.lookupRecognizer(req.Recognizer)
	if !ok {
		return apierrors.UnknownRecognizer(req.Recognizer)
	}
	if err := s.checkTextSize(req.Text); err != nil {
		return err
	}
	if err := chrono.ValidateOffset(req.Text, req.Offset); err != nil {
		return apierrors.InvalidArgument("%v", err).WithDetail("field", "offset")
	}
	ref, err := s.resolveReference(req.ReferenceDate)
	if err != nil {
		return err
	}

	started := time.Now()
	out := r.Extract(req.Text, req.Offset, ref, nil)
	latency := time.Since(started)
	s.Metrics.RecordOutcome(r.Name(), out.Status, latency)

	observability.FromContextOrNew(c.Request().Context(), c.Path()).Debug("extracted",
		slog.String(observability.LogFieldRecognizer, r.Name()),
		slog.String("status", out.Status.String()),
		slog.Int(observability.LogFieldTextLen, len(req.Text)),
	)

	resp := ExtractResponse{Status: out.Status}
	switch out.Status {
	case chrono.StatusMatched:
		resp.Result, _ = out.Result()
		resp.Span = &out.Span
	case chrono.StatusRejected:
		resp.Span = &out.Span
		if out.Reason != nil {
			resp.Reason = out.Reason.Error()
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) lookupRecognizer(name string) (chrono.Recognizer, bool) {
	for _, r := range s.recognizers {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}
