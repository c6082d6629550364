package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary describes one journaled run.
type RunSummary struct {
	ID         string     `json:"id"`
	Root       string     `json:"root"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Renamed    int        `json:"renamed"`
	Failed     int        `json:"failed"`
	UndoneAt   *time.Time `json:"undone_at,omitempty"`
}

// Entry is one applied rename.
type Entry struct {
	ID          int64      `json:"id"`
	RunID       string     `json:"run_id"`
	Source      string     `json:"source"`
	Destination string     `json:"destination"`
	RecordedAt  time.Time  `json:"recorded_at"`
	UndoneAt    *time.Time `json:"undone_at,omitempty"`
}

// Run records renames for one run ID.
type Run struct {
	store *Store
	id    string
	now   func() time.Time
}

// BeginRun inserts a run row and returns a recorder for it.
func (s *Store) BeginRun(ctx context.Context, id, root string) (*Run, error) {
	run := &Run{store: s, id: id, now: time.Now}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)`,
		id, root, formatTime(run.now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// ID returns the run identifier.
func (r *Run) ID() string {
	return r.id
}

// RecordRename appends an applied rename to the run.
func (r *Run) RecordRename(ctx context.Context, source, destination string) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO renames (run_id, source, destination, recorded_at) VALUES (?, ?, ?, ?)`,
		r.id, source, destination, formatTime(r.now()),
	)
	if err != nil {
		return fmt.Errorf("record rename: %w", err)
	}
	return nil
}

// Finish stores the run's final counts.
func (r *Run) Finish(ctx context.Context, renamed, failed int) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, renamed = ?, failed = ? WHERE id = ?`,
		formatTime(r.now()), renamed, failed, r.id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

const runColumns = `id, root, started_at, finished_at, renamed, failed, undone_at`

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// LatestUndoable returns the newest run that applied renames and has not
// been undone.
func (s *Store) LatestUndoable(ctx context.Context) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs
		 WHERE undone_at IS NULL AND EXISTS (SELECT 1 FROM renames WHERE renames.run_id = runs.id)
		 ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: no run left to undo", ErrRunNotFound)
	}
	return run, err
}

// Entries returns the renames of a run in the order they were applied.
func (s *Store) Entries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, source, destination, recorded_at, undone_at
		 FROM renames WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list renames: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry      Entry
			recordedAt string
			undoneAt   sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Source, &entry.Destination, &recordedAt, &undoneAt); err != nil {
			return nil, fmt.Errorf("scan rename: %w", err)
		}
		entry.RecordedAt = parseTime(recordedAt)
		entry.UndoneAt = parseNullTime(undoneAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renames: %w", err)
	}
	return entries, nil
}

// MarkEntryUndone flags one rename as reversed.
func (s *Store) MarkEntryUndone(ctx context.Context, entryID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE renames SET undone_at = ? WHERE id = ?`, formatTime(time.Now()), entryID)
	if err != nil {
		return fmt.Errorf("mark rename undone: %w", err)
	}
	return nil
}

// MarkRunUndone flags a run as reversed.
func (s *Store) MarkRunUndone(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET undone_at = ? WHERE id = ?`, formatTime(time.Now()), runID)
	if err != nil {
		return fmt.Errorf("mark run undone: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunSummary, error) {
	var (
		run        RunSummary
		startedAt  string
		finishedAt sql.NullString
		undoneAt   sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Root, &startedAt, &finishedAt, &run.Renamed, &run.Failed, &undoneAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, err
		}
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseNullTime(finishedAt)
	run.UndoneAt = parseNullTime(undoneAt)
	return run, nil
}

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseNullTime(value sql.NullString) *time.Time {
	if !value.Valid || value.String == "" {
		return nil
	}
	t := parseTime(value.String)
	return &t
}
