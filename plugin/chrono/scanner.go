package chrono

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Recorder receives the outcome of every recognizer invocation.
type Recorder interface {
	RecordOutcome(recognizer string, status Status, latency time.Duration)
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithRecorder reports invocation outcomes to r.
func WithRecorder(r Recorder) ScannerOption {
	return func(s *Scanner) { s.recorder = r }
}

// WithLogger sets the logger used for rejected-match diagnostics.
func WithLogger(l *slog.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = l }
}

// WithNow sets the clock used when Scan is given a zero reference date.
func WithNow(now func() time.Time) ScannerOption {
	return func(s *Scanner) { s.now = now }
}

// Scanner walks a text with a fixed set of recognizers.
type Scanner struct {
	recognizers []Recognizer
	recorder    Recorder
	logger      *slog.Logger
	now         func() time.Time
}

// NewScanner creates a scanner over recognizers. Results of equal offset are
// ordered by the position of their recognizer in the slice.
func NewScanner(recognizers []Recognizer, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		recognizers: recognizers,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recognizers returns the recognizers of the scanner.
func (s *Scanner) Recognizers() []Recognizer {
	return s.recognizers
}

type ranked struct {
	rank int
	res  ParseResult
}

// Scan returns every result found in text, ordered by offset. Each recognizer
// is driven from offset 0 to the end of the text: a match resumes the search
// after its span, a rejected match resumes one rune after the rejected span
// start. Overlapping results of different recognizers are all kept.
func (s *Scanner) Scan(ctx context.Context, text string, ref time.Time) ([]ParseResult, error) {
	if ref.IsZero() {
		ref = s.now()
	}

	found := make([][]ParseResult, len(s.recognizers))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range s.recognizers {
		g.Go(func() error {
			results, err := s.drive(gctx, r, text, ref)
			found[i] = results
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "scan aborted")
	}

	var all []ranked
	for i, results := range found {
		for _, res := range results {
			all = append(all, ranked{rank: i, res: res})
		}
	}
	slices.SortStableFunc(all, func(a, b ranked) int {
		if c := cmp.Compare(a.res.Index, b.res.Index); c != 0 {
			return c
		}
		return cmp.Compare(a.rank, b.rank)
	})

	out := make([]ParseResult, 0, len(all))
	for _, r := range all {
		out = append(out, r.res)
	}
	return out, nil
}

func (s *Scanner) drive(ctx context.Context, r Recognizer, text string, ref time.Time) ([]ParseResult, error) {
	var results []ParseResult
	for pos := 0; pos < len(text); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		started := time.Now()
		out := r.Extract(text, pos, ref, nil)
		if s.recorder != nil {
			s.recorder.RecordOutcome(r.Name(), out.Status, time.Since(started))
		}

		switch out.Status {
		case StatusMatched:
			res, _ := out.Result()
			results = append(results, *res)
			pos = out.Span.End()
		case StatusRejected:
			s.logger.Debug("rejected match",
				slog.String("recognizer", r.Name()),
				slog.Int("index", out.Span.Index),
				slog.String("text", out.Span.Text),
				slog.Any("reason", out.Reason),
			)
			_, w := utf8.DecodeRuneInString(text[out.Span.Index:])
			pos = out.Span.Index + w
		default:
			return results, nil
		}
	}
	return results, nil
}
