// Package markdown scans markdown documents for date expressions while
// keeping result offsets relative to the markdown source.
package markdown

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

// Segment is a run of prose in the source, [Start, Stop) in bytes.
type Segment struct {
	Start int
	Stop  int
}

// Segments returns the runs of contiguous text nodes of source in document
// order. Code spans and code blocks are excluded. A run continues across a
// line break of its paragraph, so wrapped prose stays one run.
func Segments(source []byte) ([]Segment, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		segments []Segment
		lastText *ast.Text
	)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeSpan, *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			seg := node.Segment
			if last := len(segments) - 1; last >= 0 && continues(source, lastText, segments[last].Stop, seg.Start) {
				segments[last].Stop = seg.Stop
			} else {
				segments = append(segments, Segment{Start: seg.Start, Stop: seg.Stop})
			}
			lastText = node
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk markdown")
	}
	return segments, nil
}

// continues reports whether a text node starting at start extends the run
// ending at stop: either directly adjacent, or after a line break of prev
// with only whitespace in between.
func continues(source []byte, prev *ast.Text, stop, start int) bool {
	if stop == start {
		return true
	}
	if prev == nil || stop > start || !(prev.SoftLineBreak() || prev.HardLineBreak()) {
		return false
	}
	return len(bytes.TrimSpace(source[stop:start])) == 0
}

// Scan runs the scanner over every prose segment of source. Result offsets
// index into source.
func Scan(ctx context.Context, s *chrono.Scanner, source string, ref time.Time) ([]chrono.ParseResult, error) {
	segments, err := Segments([]byte(source))
	if err != nil {
		return nil, err
	}

	results := make([]chrono.ParseResult, 0)
	for _, seg := range segments {
		found, err := s.Scan(ctx, source[seg.Start:seg.Stop], ref)
		if err != nil {
			return nil, err
		}
		for _, r := range found {
			r.Index += seg.Start
			results = append(results, r)
		}
	}
	return results, nil
}
