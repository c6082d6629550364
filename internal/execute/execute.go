package execute

import (
	"context"
	"log/slog"
	"time"

	"subrename/internal/fileutil"
	"subrename/internal/logging"
	"subrename/internal/plan"
)

// Recorder receives every rename that was applied.
type Recorder interface {
	RecordRename(ctx context.Context, source, destination string) error
}

// Executor applies plans through a Renamer.
type Executor struct {
	Renamer  fileutil.Renamer
	Recorder Recorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// New returns an executor using renamer. recorder may be nil.
func New(renamer fileutil.Renamer, recorder Recorder, logger *slog.Logger) *Executor {
	return &Executor{
		Renamer:  renamer,
		Recorder: recorder,
		Logger:   logging.NewComponentLogger(logger, "execute"),
		Now:      time.Now,
	}
}

// Execute applies p in order. With dryRun set nothing is touched and the
// report lists the intended outcome.
func (e *Executor) Execute(ctx context.Context, p plan.Plan, dryRun bool) *Report {
	logger := e.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := e.Now
	if now == nil {
		now = time.Now
	}

	report := &Report{DryRun: dryRun, StartedAt: now()}
	for _, item := range p.Unchanged {
		report.Add(ItemResult{
			Source:     item.Source,
			Status:     StatusUnchanged,
			Key:        item.Pair.SubtitleKey.String(),
			Confidence: item.Pair.Confidence.String(),
		})
	}
	for _, item := range p.Skipped {
		report.Add(ItemResult{
			Source:      item.Source,
			Destination: item.Destination,
			Status:      StatusSkippedCollision,
			Key:         item.Pair.SubtitleKey.String(),
			Confidence:  item.Pair.Confidence.String(),
			Reason:      "destination already claimed",
		})
	}

	for _, item := range p.Items {
		result := ItemResult{
			Source:            item.Source,
			Destination:       item.Destination,
			Status:            StatusRenamed,
			CollisionResolved: item.CollisionResolved,
			Key:               item.Pair.SubtitleKey.String(),
			Confidence:        item.Pair.Confidence.String(),
		}
		if dryRun {
			logger.Debug("rename planned",
				logging.String("source", item.Source),
				logging.String("destination", item.Destination),
			)
			report.Add(result)
			continue
		}

		if err := e.Renamer.Rename(item.Source, item.Destination); err != nil {
			result.Status = StatusFailed
			result.Err = err
			result.Error = err.Error()
			logging.WarnWithContext(logger, "rename failed", "rename_failed",
				logging.String("source", item.Source),
				logging.String("destination", item.Destination),
				logging.Error(err),
				logging.String(logging.FieldImpact, "subtitle keeps its original name"),
				logging.String(logging.FieldErrorHint, "check permissions and whether the destination already exists"),
			)
			report.Add(result)
			continue
		}
		logger.Info("subtitle renamed",
			logging.String("source", item.Source),
			logging.String("destination", item.Destination),
			logging.Bool("collision_resolved", item.CollisionResolved),
		)
		if e.Recorder != nil {
			if err := e.Recorder.RecordRename(ctx, item.Source, item.Destination); err != nil {
				logging.WarnWithContext(logger, "rename not journaled", "journal_record_failed",
					logging.String("source", item.Source),
					logging.Error(err),
					logging.String(logging.FieldImpact, "undo will not cover this rename"),
					logging.String(logging.FieldErrorHint, "check the state directory is writable"),
				)
			}
		}
		report.Add(result)
	}
	report.FinishedAt = now()
	return report
}
