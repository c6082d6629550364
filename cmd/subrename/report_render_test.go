package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"subrename/internal/execute"
)

func TestRenderReport(t *testing.T) {
	report := &execute.Report{Root: "/lib", RunID: "run-1"}
	report.Add(execute.ItemResult{Source: "/lib/a.srt", Destination: "/lib/Show.S01E01.srt", Status: execute.StatusRenamed})
	report.Add(execute.ItemResult{Source: "/lib/b.srt", Destination: "/lib/Show.S01E01.2.srt", Status: execute.StatusRenamed, CollisionResolved: true})
	report.Add(execute.ItemResult{Source: "/lib/c.srt", Status: execute.StatusSkippedUnmatched, Reason: "no video with a matching key"})
	err := errors.New("permission denied")
	report.Add(execute.ItemResult{Source: "/lib/d.srt", Destination: "/lib/Show.S01E04.srt", Status: execute.StatusFailed, Err: err, Error: err.Error()})

	var buf bytes.Buffer
	renderReport(&buf, report, false)
	out := buf.String()

	for _, want := range []string{
		"-> Show.S01E01.srt",
		"(name taken, suffixed)",
		"no video with a matching key",
		"permission denied",
		"Renamed:",
		"Failed:",
		"run-1",
	} {
		requireContains(t, out, want)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("uncolored output contains escape codes")
	}
}

func TestRenderReportDryRunAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, &execute.Report{DryRun: true}, false)
	out := buf.String()
	requireContains(t, out, "No subtitles found.")
	requireContains(t, out, "Would rename:")
	requireContains(t, out, "no files were changed")
}

func TestDisplayPath(t *testing.T) {
	tests := []struct {
		root, path, want string
	}{
		{"/lib", "/lib/a.srt", "a.srt"},
		{"/lib", "/lib/sub/a.srt", "sub/a.srt"},
		{"/lib", "/other/a.srt", "/other/a.srt"},
		{"", "/lib/a.srt", "/lib/a.srt"},
	}
	for _, tt := range tests {
		if got := displayPath(tt.root, tt.path); got != tt.want {
			t.Fatalf("displayPath(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
		}
	}
}

func TestRenderStatusLineColor(t *testing.T) {
	line := renderStatusLine("Failed", statusError, "2", true)
	if !strings.HasPrefix(line, ansiRed) || !strings.HasSuffix(line, ansiReset) {
		t.Fatalf("line = %q, want red", line)
	}
}
