package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"subrename/internal/correlate"
	"subrename/internal/execute"
	"subrename/internal/fileutil"
	"subrename/internal/identity"
	"subrename/internal/journal"
	"subrename/internal/logging"
	"subrename/internal/media"
	"subrename/internal/plan"
	"subrename/internal/preflight"
	"subrename/internal/runlock"
	"subrename/internal/scan"
)

// Options selects what a run does.
type Options struct {
	Root               string
	VideoExtensions    []string
	SubtitleExtensions []string
	DryRun             bool
	Recursive          bool

	// VideoPatterns and SubtitlePatterns are tried before the built-in
	// rules. A side left empty borrows the other side's patterns.
	VideoPatterns    []string
	SubtitlePatterns []string
	OrdinalFallback  bool
	Collision        plan.CollisionPolicy

	// RunID is generated when empty.
	RunID string
}

// Deps carries collaborators. Nil fields get defaults: a WalkDir lister, the
// OS renamer, no journal, and no lock.
type Deps struct {
	Lister  scan.Lister
	Renamer fileutil.Renamer
	Journal *journal.Store
	LockDir string
	Logger  *slog.Logger
}

type setup struct {
	root       string
	extensions media.Extensions
	correlate  correlate.Options
	policy     plan.CollisionPolicy
}

// Run executes one pass over opts.Root. The returned error is non-nil only
// for setup problems and cancellation; rename failures are report entries.
func Run(ctx context.Context, opts Options, deps Deps) (*execute.Report, error) {
	runID := strings.TrimSpace(opts.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(deps.Logger, "engine"))

	s, err := prepare(opts, deps, logger)
	if err != nil {
		return nil, err
	}
	ctx = logging.WithRoot(ctx, s.root)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(deps.Logger, "engine"))
	s.correlate.Logger = logging.WithContext(ctx, deps.Logger)

	if !opts.DryRun && deps.LockDir != "" {
		lock, err := runlock.Acquire(deps.LockDir, s.root)
		if err != nil {
			return nil, Wrap(ErrSetup, "setup", "lock", "", err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release run lock failed", logging.Error(err))
			}
		}()
	}

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Bool("dry_run", opts.DryRun),
		logging.Bool("recursive", opts.Recursive),
	)

	if err := ctx.Err(); err != nil {
		return nil, Wrap(ErrCanceled, "enumerate", "", "", err)
	}
	lister := deps.Lister
	if lister == nil {
		lister = scan.NewWalkLister(logging.WithContext(ctx, deps.Logger))
	}
	entries, err := lister.List(ctx, s.root, opts.Recursive)
	if err != nil {
		return nil, Wrap(ErrSetup, "enumerate", "list root", "", err)
	}

	videos, subtitles := media.Classify(entries, s.extensions)
	logger.Info("files classified",
		logging.String(logging.FieldPhase, "classify"),
		logging.Int("entries", len(entries)),
		logging.Int("videos", len(videos)),
		logging.Int("subtitles", len(subtitles)),
	)

	if err := ctx.Err(); err != nil {
		return nil, Wrap(ErrCanceled, "correlate", "", "", err)
	}
	matches := correlate.Correlate(videos, subtitles, s.correlate)
	logger.Info("subtitles correlated",
		logging.String(logging.FieldPhase, "correlate"),
		logging.Int("pairs", len(matches.Pairs)),
		logging.Int("unmatched", len(matches.Unmatched)),
		logging.Bool("ordinal", matches.Ordinal),
	)

	builder := plan.NewBuilder(s.policy, logging.WithContext(ctx, deps.Logger))
	for _, entry := range entries {
		if entry.IsFile {
			builder.Reserve(entry.Path)
		}
	}
	renamePlan := builder.Build(matches.Pairs)
	logger.Info("rename plan built",
		logging.String(logging.FieldPhase, "plan"),
		logging.Int("renames", len(renamePlan.Items)),
		logging.Int("skipped_collision", len(renamePlan.Skipped)),
		logging.Int("unchanged", len(renamePlan.Unchanged)),
	)

	if err := ctx.Err(); err != nil {
		return nil, Wrap(ErrCanceled, "execute", "", "not started", err)
	}

	renamer := deps.Renamer
	if renamer == nil {
		renamer = fileutil.OSRenamer{}
	}
	var run *journal.Run
	if deps.Journal != nil && !opts.DryRun && len(renamePlan.Items) > 0 {
		run, err = deps.Journal.BeginRun(ctx, runID, s.root)
		if err != nil {
			logging.WarnWithContext(logger, "journal unavailable", "journal_begin_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run cannot be undone"),
				logging.String(logging.FieldErrorHint, "check the state directory"),
			)
			run = nil
		}
	}

	executor := execute.New(renamer, recorderOrNil(run), logging.WithContext(ctx, deps.Logger))
	report := executor.Execute(ctx, renamePlan, opts.DryRun)
	report.RunID = runID
	report.Root = s.root
	report.AddUnmatched(matches.Unmatched)

	if run != nil {
		if err := run.Finish(ctx, report.Counts.Renamed, report.Counts.Failed); err != nil {
			logger.Warn("journal finish failed", logging.Error(err))
		}
	}

	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("renamed", report.Counts.Renamed),
		logging.Int("unchanged", report.Counts.Unchanged),
		logging.Int("skipped_unmatched", report.Counts.SkippedUnmatched),
		logging.Int("skipped_collision", report.Counts.SkippedCollision),
		logging.Int("failed", report.Counts.Failed),
		logging.Bool("dry_run", opts.DryRun),
	)
	return report, nil
}

// recorderOrNil avoids handing the executor a typed nil.
func recorderOrNil(run *journal.Run) execute.Recorder {
	if run == nil {
		return nil
	}
	return run
}

func prepare(opts Options, deps Deps, logger *slog.Logger) (setup, error) {
	var s setup
	if strings.TrimSpace(opts.Root) == "" {
		return s, Wrap(ErrSetup, "setup", "root", "no directory given", nil)
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return s, Wrap(ErrSetup, "setup", "root", "resolve path", err)
	}
	s.root = root

	req := preflight.Request{Root: root, DryRun: opts.DryRun}
	if deps.Journal != nil {
		req.Journal = true
		req.StateDir = filepath.Dir(deps.Journal.Path())
	}
	results := preflight.RunAll(req)
	for _, r := range results {
		logger.Debug("preflight check",
			logging.String("check", r.Name),
			logging.Bool("passed", r.Passed),
			logging.String("detail", r.Detail),
		)
	}
	if err := preflight.Failures(results); err != nil {
		return s, Wrap(ErrSetup, "setup", "preflight", "", err)
	}

	videoExt, subtitleExt := opts.VideoExtensions, opts.SubtitleExtensions
	if len(videoExt) == 0 {
		videoExt = media.DefaultVideoExtensions
	}
	if len(subtitleExt) == 0 {
		subtitleExt = media.DefaultSubtitleExtensions
	}
	s.extensions = media.NewExtensions(videoExt, subtitleExt)
	if len(s.extensions.Video()) == 0 || len(s.extensions.Subtitle()) == 0 {
		return s, Wrap(ErrSetup, "setup", "extensions", "empty extension set", nil)
	}
	if shared := s.extensions.Overlap(); len(shared) > 0 {
		return s, Wrap(ErrSetup, "setup", "extensions", "listed as both video and subtitle: "+strings.Join(shared, ", "), nil)
	}

	videoPatterns, subtitlePatterns := SharePatterns(opts.VideoPatterns, opts.SubtitlePatterns)
	videoExtractor, err := identity.NewExtractor(videoPatterns)
	if err != nil {
		return s, Wrap(ErrSetup, "setup", "video pattern", "", err)
	}
	subtitleExtractor, err := identity.NewExtractor(subtitlePatterns)
	if err != nil {
		return s, Wrap(ErrSetup, "setup", "subtitle pattern", "", err)
	}
	s.correlate = correlate.Options{
		Video:           videoExtractor,
		Subtitle:        subtitleExtractor,
		OrdinalFallback: opts.OrdinalFallback,
	}

	s.policy, err = plan.ParseCollisionPolicy(string(opts.Collision))
	if err != nil {
		return s, Wrap(ErrSetup, "setup", "collision policy", "", err)
	}
	return s, nil
}

// SharePatterns applies the fallback rule: when only one side has patterns,
// both sides use them.
func SharePatterns(video, subtitle []string) ([]string, []string) {
	switch {
	case len(video) == 0 && len(subtitle) > 0:
		return subtitle, subtitle
	case len(subtitle) == 0 && len(video) > 0:
		return video, video
	}
	return video, subtitle
}
