package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/vnchrono/plugin/chrono"
	"github.com/hrygo/vnchrono/plugin/chrono/ics"
	"github.com/hrygo/vnchrono/plugin/chrono/locale"
	"github.com/hrygo/vnchrono/plugin/chrono/markdown"
	"github.com/hrygo/vnchrono/plugin/chrono/vn"
)

type parseOptions struct {
	ref      string
	markdown bool
	output   string
	lang     string
}

var parseOpts parseOptions

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Print the date expressions found in a text",
	Long:  "Print the date expressions found in the arguments, or in stdin when no argument is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		if len(args) == 0 {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return errors.Wrap(err, "failed to read stdin")
			}
			text = string(raw)
		}
		return runParse(cmd, text, parseOpts, instanceProfile.NewLogger())
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseOpts.ref, "ref", "", "reference date, RFC 3339 or YYYY-MM-DD (default now)")
	parseCmd.Flags().BoolVar(&parseOpts.markdown, "markdown", false, "treat the text as markdown and skip code")
	parseCmd.Flags().StringVarP(&parseOpts.output, "output", "o", "text", "output format: text, json or ics")
	parseCmd.Flags().StringVar(&parseOpts.lang, "lang", locale.Default, "language of text output: "+strings.Join(locale.Languages(), " or "))
}

func runParse(cmd *cobra.Command, text string, opts parseOptions, logger *slog.Logger) error {
	ref, err := chrono.ParseReference(opts.ref)
	if err != nil {
		return err
	}
	if ref.IsZero() {
		ref = time.Now()
	}
	if opts.output == "text" {
		if _, err := locale.Lookup(opts.lang); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := chrono.NewScanner(vn.Recognizers(), chrono.WithLogger(logger))
	var results []chrono.ParseResult
	if opts.markdown {
		results, err = markdown.Scan(ctx, scanner, text, ref)
	} else {
		results, err = scanner.Scan(ctx, text, ref)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "ics":
		return ics.Encode(out, results)
	case "text":
		for _, r := range results {
			rendered, err := locale.FormatResult(opts.lang, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", r.Index, r.Recognizer, r.Text, rendered)
		}
		return nil
	default:
		return errors.Errorf("unknown output format %q", opts.output)
	}
}
