package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"subrename/internal/execute"
)

func renderReport(w io.Writer, report *execute.Report, colorize bool) {
	if report == nil {
		return
	}
	if len(report.Items) == 0 {
		fmt.Fprintln(w, "No subtitles found.")
	} else {
		rows := make([][]string, 0, len(report.Items))
		for _, item := range report.Items {
			rows = append(rows, []string{
				colorText(itemStatusKind(item.Status), string(item.Status), colorize),
				displayPath(report.Root, item.Source),
				itemDetail(report.Root, item),
			})
		}
		fmt.Fprintln(w, renderTable([]string{"Status", "Subtitle", "Result"}, rows, nil))
	}
	for _, line := range summaryLines(report, colorize) {
		fmt.Fprintln(w, line)
	}
}

func itemDetail(root string, item execute.ItemResult) string {
	switch item.Status {
	case execute.StatusRenamed:
		detail := "-> " + displayPath(root, item.Destination)
		if item.CollisionResolved {
			detail += " (name taken, suffixed)"
		}
		return detail
	case execute.StatusFailed:
		return item.Error
	case execute.StatusSkippedCollision:
		return "target exists: " + displayPath(root, item.Destination)
	default:
		return item.Reason
	}
}

func summaryLines(report *execute.Report, colorize bool) []string {
	c := report.Counts
	renamedLabel := "Renamed"
	if report.DryRun {
		renamedLabel = "Would rename"
	}
	lines := []string{
		renderStatusLine(renamedLabel, statusOK, strconv.Itoa(c.Renamed), colorize),
		renderStatusLine("Already named", statusInfo, strconv.Itoa(c.Unchanged), colorize),
	}
	if c.SkippedUnmatched > 0 {
		lines = append(lines, renderStatusLine("Unmatched", statusWarn, strconv.Itoa(c.SkippedUnmatched), colorize))
	}
	if c.SkippedCollision > 0 {
		lines = append(lines, renderStatusLine("Skipped (collision)", statusWarn, strconv.Itoa(c.SkippedCollision), colorize))
	}
	if c.Failed > 0 {
		lines = append(lines, renderStatusLine("Failed", statusError, strconv.Itoa(c.Failed), colorize))
	}
	if report.DryRun {
		lines = append(lines, renderStatusLine("Dry run", statusInfo, "no files were changed", colorize))
	} else if report.RunID != "" && c.Renamed > 0 {
		lines = append(lines, renderStatusLine("Run", statusInfo, report.RunID, colorize))
	}
	return lines
}

// displayPath shortens paths under root; anything else is shown as is.
func displayPath(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
