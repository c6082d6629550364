package execute

import (
	"fmt"
	"time"

	"subrename/internal/correlate"
)

// Status is the outcome of one subtitle.
type Status string

const (
	StatusRenamed          Status = "renamed"
	StatusUnchanged        Status = "unchanged"
	StatusSkippedUnmatched Status = "skipped-unmatched"
	StatusSkippedCollision Status = "skipped-collision"
	StatusFailed           Status = "failed"
)

// ItemResult describes what happened to one subtitle. In a dry run a
// renamed item is the rename that would have happened.
type ItemResult struct {
	Source            string `json:"source"`
	Destination       string `json:"destination,omitempty"`
	Status            Status `json:"status"`
	CollisionResolved bool   `json:"collision_resolved,omitempty"`
	Key               string `json:"key,omitempty"`
	Confidence        string `json:"confidence,omitempty"`
	Reason            string `json:"reason,omitempty"`
	Error             string `json:"error,omitempty"`
	Err               error  `json:"-"`
}

// Counts aggregates item outcomes.
type Counts struct {
	Renamed          int `json:"renamed"`
	Unchanged        int `json:"unchanged"`
	SkippedUnmatched int `json:"skipped_unmatched"`
	SkippedCollision int `json:"skipped_collision"`
	Failed           int `json:"failed"`
}

// Report is the result of one run.
type Report struct {
	RunID      string       `json:"run_id,omitempty"`
	Root       string       `json:"root,omitempty"`
	DryRun     bool         `json:"dry_run"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Counts     Counts       `json:"counts"`
	Items      []ItemResult `json:"items"`
}

// HasFailures reports whether any rename failed.
func (r *Report) HasFailures() bool {
	return r != nil && r.Counts.Failed > 0
}

// Add appends result and updates the counts.
func (r *Report) Add(result ItemResult) {
	switch result.Status {
	case StatusRenamed:
		r.Counts.Renamed++
	case StatusUnchanged:
		r.Counts.Unchanged++
	case StatusSkippedUnmatched:
		r.Counts.SkippedUnmatched++
	case StatusSkippedCollision:
		r.Counts.SkippedCollision++
	case StatusFailed:
		r.Counts.Failed++
	}
	r.Items = append(r.Items, result)
}

// AddUnmatched records subtitles the correlator could not pair.
func (r *Report) AddUnmatched(unmatched []correlate.Unmatched) {
	for _, u := range unmatched {
		r.Add(ItemResult{
			Source: u.Subtitle.Path,
			Status: StatusSkippedUnmatched,
			Key:    u.Key.String(),
			Reason: unmatchedReason(u),
		})
	}
}

func unmatchedReason(u correlate.Unmatched) string {
	if u.Reason == correlate.ReasonAmbiguous {
		return "ambiguous: " + pluralVideos(u.Candidates) + " share this key"
	}
	return "no video with a matching key"
}

func pluralVideos(n int) string {
	if n == 1 {
		return "1 video"
	}
	return fmt.Sprintf("%d videos", n)
}
