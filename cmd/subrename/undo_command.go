package main

import (
	"github.com/spf13/cobra"

	"subrename/internal/engine"
	"subrename/internal/journal"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var dryRun, asJSON bool

	cmd := &cobra.Command{
		Use:   "undo [run-id]",
		Short: "Restore the original names from a journaled run",
		Long: `Undo renames every subtitle of a run back to the name it had before,
newest rename first. Without a run ID the latest run that has not been
undone is used. See "subrename history" for run IDs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			opts := engine.UndoOptions{DryRun: dryRun}
			if len(args) == 1 {
				opts.RunID = args[0]
			}
			return ctx.withJournal(cmd.Context(), func(store *journal.Store) error {
				if store == nil {
					return errJournalDisabled
				}
				report, err := engine.Undo(cmd.Context(), opts, engine.UndoDeps{
					Journal: store,
					LockDir: cfg.LockDir(),
					Logger:  logger,
				})
				if err != nil {
					return err
				}
				if asJSON {
					if err := writeJSON(cmd, report); err != nil {
						return err
					}
				} else {
					renderReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
				}
				if report.HasFailures() {
					return errRenameFailures
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the restores without applying them")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
