package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// separatorRun matches the characters release groups use interchangeably
// between words.
var separatorRun = regexp.MustCompile(`[\s._-]+`)

// CollapseSeparators replaces every run of dots, underscores, hyphens, and
// whitespace with a single space and trims the ends.
func CollapseSeparators(value string) string {
	return strings.TrimSpace(separatorRun.ReplaceAllString(value, " "))
}

// FoldStem returns the canonical comparison form of a filename stem:
// NFKC-normalized, separators collapsed, and case-folded.
func FoldStem(stem string) string {
	collapsed := CollapseSeparators(norm.NFKC.String(stem))
	if collapsed == "" {
		return ""
	}
	// cases.Caser keeps state between calls and must not be shared.
	return cases.Fold().String(collapsed)
}
