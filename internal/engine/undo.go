package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"subrename/internal/execute"
	"subrename/internal/fileutil"
	"subrename/internal/journal"
	"subrename/internal/logging"
	"subrename/internal/runlock"
)

// UndoOptions selects the run to reverse. An empty RunID picks the most
// recent run that is not yet undone.
type UndoOptions struct {
	RunID  string
	DryRun bool
}

// UndoDeps carries collaborators for Undo. Journal is required.
type UndoDeps struct {
	Journal *journal.Store
	Renamer fileutil.Renamer
	LockDir string
	Logger  *slog.Logger
}

// Undo renames every journaled destination of a run back to its source,
// newest first. Each restored entry is marked immediately so a partial undo
// can be resumed; the run itself is marked only when nothing failed.
func Undo(ctx context.Context, opts UndoOptions, deps UndoDeps) (*execute.Report, error) {
	if deps.Journal == nil {
		return nil, Wrap(ErrSetup, "undo", "journal", "journal is disabled", nil)
	}
	logger := logging.NewComponentLogger(deps.Logger, "undo")

	run, err := selectRun(ctx, deps.Journal, strings.TrimSpace(opts.RunID))
	if err != nil {
		return nil, err
	}
	if run.UndoneAt != nil {
		return nil, Wrap(ErrSetup, "undo", "select run", "run "+run.ID+" was already undone", nil)
	}
	ctx = logging.WithRoot(logging.WithRunID(ctx, run.ID), run.Root)
	logger = logging.WithContext(ctx, logger)

	if !opts.DryRun && deps.LockDir != "" {
		lock, err := runlock.Acquire(deps.LockDir, run.Root)
		if err != nil {
			return nil, Wrap(ErrSetup, "undo", "lock", "", err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release run lock failed", logging.Error(err))
			}
		}()
	}

	entries, err := deps.Journal.Entries(ctx, run.ID)
	if err != nil {
		return nil, Wrap(ErrJournal, "undo", "load entries", "", err)
	}

	renamer := deps.Renamer
	if renamer == nil {
		renamer = fileutil.OSRenamer{}
	}
	report := &execute.Report{RunID: run.ID, Root: run.Root, DryRun: opts.DryRun, StartedAt: time.Now()}
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if entry.UndoneAt != nil {
			report.Add(execute.ItemResult{Source: entry.Destination, Destination: entry.Source, Status: execute.StatusUnchanged, Reason: "already restored"})
			continue
		}
		if err := ctx.Err(); err != nil {
			report.FinishedAt = time.Now()
			return report, Wrap(ErrCanceled, "undo", "", "", err)
		}
		result := execute.ItemResult{Source: entry.Destination, Destination: entry.Source, Status: execute.StatusRenamed}
		if !opts.DryRun {
			if err := renamer.Rename(entry.Destination, entry.Source); err != nil {
				result.Status = execute.StatusFailed
				result.Err = err
				result.Error = err.Error()
				logging.WarnWithContext(logger, "restore failed", "undo_rename_failed",
					logging.String("source", entry.Destination),
					logging.String("destination", entry.Source),
					logging.Error(err),
					logging.String(logging.FieldImpact, "file keeps its new name"),
					logging.String(logging.FieldErrorHint, "resolve the conflict and run undo again"),
				)
				report.Add(result)
				continue
			}
			if err := deps.Journal.MarkEntryUndone(ctx, entry.ID); err != nil {
				logger.Warn("mark entry undone failed", logging.Int64("entry_id", entry.ID), logging.Error(err))
			}
			logger.Info("restored",
				logging.String("source", entry.Destination),
				logging.String("destination", entry.Source),
			)
		}
		report.Add(result)
	}
	report.FinishedAt = time.Now()

	if !opts.DryRun && !report.HasFailures() {
		if err := deps.Journal.MarkRunUndone(ctx, run.ID); err != nil {
			return report, Wrap(ErrJournal, "undo", "mark run", "", err)
		}
	}
	logger.Info("undo finished",
		logging.Int("restored", report.Counts.Renamed),
		logging.Int("failed", report.Counts.Failed),
		logging.Bool("dry_run", opts.DryRun),
	)
	return report, nil
}

func selectRun(ctx context.Context, store *journal.Store, id string) (journal.RunSummary, error) {
	var (
		run journal.RunSummary
		err error
	)
	if id == "" {
		run, err = store.LatestUndoable(ctx)
	} else {
		run, err = store.GetRun(ctx, id)
	}
	if errors.Is(err, journal.ErrRunNotFound) {
		return run, Wrap(ErrSetup, "undo", "select run", "", err)
	}
	if err != nil {
		return run, Wrap(ErrJournal, "undo", "select run", "", err)
	}
	return run, nil
}
