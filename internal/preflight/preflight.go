package preflight

import (
	"errors"
	"strings"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Request describes the run being checked.
type Request struct {
	Root     string
	StateDir string
	DryRun   bool
	Journal  bool
}

// RunAll executes the checks that apply to req. A dry run only needs to
// read the root; the state directory is checked only when the journal is on.
func RunAll(req Request) []Result {
	access := AccessReadWrite
	if req.DryRun {
		access = AccessRead
	}
	results := []Result{CheckDirectoryAccess("Root directory", req.Root, access)}
	if req.Journal && !req.DryRun && strings.TrimSpace(req.StateDir) != "" {
		results = append(results, CheckStateDirectory(req.StateDir))
	}
	return results
}

// Failures joins the failed results into one error, or returns nil.
func Failures(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, errors.New(r.Name+": "+r.Detail))
		}
	}
	return errors.Join(errs...)
}
