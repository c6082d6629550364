package media

import (
	"path/filepath"
	"slices"
	"strings"

	"subrename/internal/scan"
)

// Kind identifies what a file is for matching purposes.
type Kind int

const (
	KindIgnored Kind = iota
	KindVideo
	KindSubtitle
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindSubtitle:
		return "subtitle"
	default:
		return "ignored"
	}
}

// DefaultVideoExtensions lists the video containers recognised without configuration.
var DefaultVideoExtensions = []string{"mkv", "mp4", "avi", "m4v", "mov", "wmv", "ts", "webm"}

// DefaultSubtitleExtensions lists the subtitle formats recognised without configuration.
var DefaultSubtitleExtensions = []string{"srt", "ass", "ssa", "sub", "vtt", "idx", "sup"}

// Entry is a classified file. Extension is lowercased without the dot;
// Stem keeps the original spelling.
type Entry struct {
	Path      string
	Stem      string
	Extension string
	Kind      Kind
}

// Dir returns the directory holding the entry.
func (e Entry) Dir() string {
	return filepath.Dir(e.Path)
}

// Base returns the file name including the extension.
func (e Entry) Base() string {
	return filepath.Base(e.Path)
}

// NewEntry splits path into stem and extension and tags it with kind.
func NewEntry(path string, kind Kind) Entry {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return Entry{
		Path:      path,
		Stem:      strings.TrimSuffix(base, ext),
		Extension: strings.ToLower(strings.TrimPrefix(ext, ".")),
		Kind:      kind,
	}
}

// Extensions holds the two extension sets used for classification.
type Extensions struct {
	video    map[string]struct{}
	subtitle map[string]struct{}
}

// NewExtensions normalizes the given lists. Entries are trimmed, lowercased
// and stripped of a leading dot; blanks are dropped.
func NewExtensions(video, subtitle []string) Extensions {
	return Extensions{
		video:    extensionSet(video),
		subtitle: extensionSet(subtitle),
	}
}

// DefaultExtensions returns the built-in sets.
func DefaultExtensions() Extensions {
	return NewExtensions(DefaultVideoExtensions, DefaultSubtitleExtensions)
}

// NormalizeExtension lowercases ext and removes surrounding space and a leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func extensionSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if ext := NormalizeExtension(value); ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// Video reports the configured video extensions in sorted order.
func (x Extensions) Video() []string { return sortedKeys(x.video) }

// Subtitle reports the configured subtitle extensions in sorted order.
func (x Extensions) Subtitle() []string { return sortedKeys(x.subtitle) }

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Overlap returns extensions present in both sets.
func (x Extensions) Overlap() []string {
	var shared []string
	for ext := range x.video {
		if _, ok := x.subtitle[ext]; ok {
			shared = append(shared, ext)
		}
	}
	slices.Sort(shared)
	return shared
}

// KindOf classifies path by its extension. Names without a stem such as
// ".srt" are ignored. Video wins if an extension is in both sets.
func (x Extensions) KindOf(path string) Kind {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return KindIgnored
	}
	norm := NormalizeExtension(ext)
	if _, ok := x.video[norm]; ok {
		return KindVideo
	}
	if _, ok := x.subtitle[norm]; ok {
		return KindSubtitle
	}
	return KindIgnored
}

// Classify partitions entries into videos and subtitles, preserving input
// order. Directories and unrecognised files are dropped.
func Classify(entries []scan.Entry, ext Extensions) (videos, subtitles []Entry) {
	for _, entry := range entries {
		if !entry.IsFile {
			continue
		}
		switch kind := ext.KindOf(entry.Path); kind {
		case KindVideo:
			videos = append(videos, NewEntry(entry.Path, kind))
		case KindSubtitle:
			subtitles = append(subtitles, NewEntry(entry.Path, kind))
		}
	}
	return videos, subtitles
}
