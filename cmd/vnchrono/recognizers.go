package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hrygo/vnchrono/plugin/chrono/vn"
)

var recognizersCmd = &cobra.Command{
	Use:   "recognizers",
	Short: "List the registered recognizers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return listRecognizers(cmd.OutOrStdout())
	},
}

func listRecognizers(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATTERN")
	for _, r := range vn.Recognizers() {
		fmt.Fprintf(tw, "%s\t%s\n", r.Name(), r.Pattern())
	}
	return tw.Flush()
}
