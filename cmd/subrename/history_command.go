package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subrename/internal/journal"
)

var errJournalDisabled = errors.New("journal is disabled in the configuration ([journal] enabled = false)")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled rename runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}
			return ctx.withJournal(cmd.Context(), func(store *journal.Store) error {
				if store == nil {
					return errJournalDisabled
				}
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					if runs == nil {
						runs = []journal.RunSummary{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded.")
					return nil
				}
				fmt.Fprintln(out, renderHistory(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")
	return cmd
}

func renderHistory(runs []journal.RunSummary) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		undone := "-"
		if run.UndoneAt != nil {
			undone = run.UndoneAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Root,
			strconv.Itoa(run.Renamed),
			strconv.Itoa(run.Failed),
			undone,
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Directory", "Renamed", "Failed", "Undone"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}
