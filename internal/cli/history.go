package cli

import (
	"fmt"
	"io"

	"github.com/dgallion1/mediai/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded analyses",
	}

	var level, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List records newest first",
		Long: `List recorded analyses, optionally filtered by triage level and a search
term matched against conditions, the quick summary and age.

Examples:
  mediai history list --level emergency
  mediai history list -q asthma -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := history.ParseLevelFilter(level)
			if err != nil {
				return err
			}
			services, _, err := opts.services(cmd, false)
			if err != nil {
				return err
			}
			defer services.Close()

			rows := newRecordRows(services.History.Find(history.Query{Level: filter, Search: search}))
			return render(cmd.OutOrStdout(), opts.output, rows, func(w io.Writer) {
				displayRecords(w, rows)
			})
		},
	}
	list.Flags().StringVar(&level, "level", "all", "Triage filter (all, emergency, urgent, mild)")
	list.Flags().StringVarP(&search, "query", "q", "", "Search conditions, summary and age")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print a record's full response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, _, err := opts.services(cmd, false)
			if err != nil {
				return err
			}
			defer services.Close()

			rec, ok := findRecord(services.History, args[0])
			if !ok {
				return fmt.Errorf("record %s not found", args[0])
			}
			return render(cmd.OutOrStdout(), opts.output, rec, func(w io.Writer) {
				displayRecords(w, newRecordRows([]history.Record{rec}))
				fmt.Fprintf(w, "\n%s\n", rec.Markdown)
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
