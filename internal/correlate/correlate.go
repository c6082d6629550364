package correlate

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"subrename/internal/identity"
	"subrename/internal/language"
	"subrename/internal/logging"
	"subrename/internal/media"
	"subrename/internal/textutil"
)

// Confidence records how a pair was established.
type Confidence int

const (
	ConfidenceExact Confidence = iota
	ConfidenceOrdinal
)

func (c Confidence) String() string {
	if c == ConfidenceOrdinal {
		return "ordinal"
	}
	return "exact"
}

// Reason explains why a subtitle stayed unmatched.
type Reason int

const (
	ReasonNoCandidate Reason = iota
	ReasonAmbiguous
)

func (r Reason) String() string {
	if r == ReasonAmbiguous {
		return "ambiguous"
	}
	return "no-candidate"
}

// Pair links one subtitle to one video.
type Pair struct {
	Video       media.Entry
	Subtitle    media.Entry
	VideoKey    identity.Key
	SubtitleKey identity.Key
	Confidence  Confidence
}

// Unmatched is a subtitle that could not be paired. Candidates is the number
// of videos that matched its key; it is above one only for ambiguous entries.
type Unmatched struct {
	Subtitle   media.Entry
	Key        identity.Key
	Reason     Reason
	Candidates int
}

// Result holds every subtitle exactly once, either in Pairs or Unmatched.
type Result struct {
	Pairs     []Pair
	Unmatched []Unmatched
	// Ordinal is set when the pairs came from the ordinal fallback.
	Ordinal bool
}

// Options configures key extraction and the fallback. Nil extractors use
// the built-in rules.
type Options struct {
	Video           *identity.Extractor
	Subtitle        *identity.Extractor
	OrdinalFallback bool
	Logger          *slog.Logger
}

// DefaultOptions enables the ordinal fallback with built-in extraction.
func DefaultOptions() Options {
	return Options{OrdinalFallback: true}
}

type keyed struct {
	entry  media.Entry
	key    identity.Key
	folded string
}

// Correlate matches subtitles against videos. Pairs and unmatched entries
// follow subtitle input order; a video may appear in several pairs.
func Correlate(videos, subtitles []media.Entry, opts Options) Result {
	logger := logging.NewComponentLogger(opts.Logger, "correlate")

	vids := make([]keyed, len(videos))
	for i, v := range videos {
		vids[i] = keyed{entry: v, key: opts.Video.Extract(v.Stem), folded: textutil.FoldStem(v.Stem)}
	}
	subs := make([]keyed, len(subtitles))
	for i, s := range subtitles {
		core := language.SplitTrailingTags(s.Stem).Core
		subs[i] = keyed{entry: s, key: opts.Subtitle.Extract(core), folded: textutil.FoldStem(core)}
	}

	idx := newIndex(vids)
	var result Result
	for _, sub := range subs {
		candidates := idx.candidates(sub)
		switch len(candidates) {
		case 0:
			result.Unmatched = append(result.Unmatched, Unmatched{Subtitle: sub.entry, Key: sub.key, Reason: ReasonNoCandidate})
			logDecision(logger, "unmatched", "no_candidate", sub)
		case 1:
			video := vids[candidates[0]]
			result.Pairs = append(result.Pairs, Pair{
				Video:       video.entry,
				Subtitle:    sub.entry,
				VideoKey:    video.key,
				SubtitleKey: sub.key,
				Confidence:  ConfidenceExact,
			})
			logDecision(logger, "matched", "single_candidate", sub, logging.String("video", video.entry.Path))
		default:
			result.Unmatched = append(result.Unmatched, Unmatched{
				Subtitle:   sub.entry,
				Key:        sub.key,
				Reason:     ReasonAmbiguous,
				Candidates: len(candidates),
			})
			logDecision(logger, "unmatched", "ambiguous", sub, logging.Int("candidates", len(candidates)))
		}
	}

	if opts.OrdinalFallback && len(result.Pairs) == 0 && idx.ordinalEligible(subs) {
		result = ordinalPairs(vids, subs)
		attrs := append(logging.DecisionAttrs("ordinal_fallback", "applied", "no_episodic_keys"),
			logging.Int("pairs", len(result.Pairs)),
		)
		logger.Debug("ordinal fallback decision", logging.Args(attrs...)...)
	}
	return result
}

func logDecision(logger *slog.Logger, result, reason string, sub keyed, extra ...logging.Attr) {
	attrs := append(logging.DecisionAttrs("subtitle_match", result, reason),
		logging.String("subtitle", sub.entry.Path),
		logging.String("key", sub.key.String()),
	)
	attrs = append(attrs, extra...)
	logger.Debug("subtitle match decision", logging.Args(attrs...)...)
}

type index struct {
	videos    []keyed
	byKey     map[identity.Key][]int
	byEpisode map[uint32][]int
	byFolded  map[string][]int
}

func newIndex(videos []keyed) *index {
	idx := &index{
		videos:    videos,
		byKey:     make(map[identity.Key][]int),
		byEpisode: make(map[uint32][]int),
		byFolded:  make(map[string][]int),
	}
	for i, v := range videos {
		if v.key.IsEpisodic() {
			idx.byKey[v.key] = append(idx.byKey[v.key], i)
			idx.byEpisode[v.key.Episode] = append(idx.byEpisode[v.key.Episode], i)
		}
		idx.byFolded[v.folded] = append(idx.byFolded[v.folded], i)
	}
	return idx
}

// candidates returns the matching video indexes for sub at the first
// precedence level that yields any.
func (idx *index) candidates(sub keyed) []int {
	if sub.key.IsEpisodic() {
		if exact := idx.byKey[sub.key]; len(exact) > 0 {
			return exact
		}
		var tolerant []int
		for _, i := range idx.byEpisode[sub.key.Episode] {
			if !sub.key.HasSeason || !idx.videos[i].key.HasSeason {
				tolerant = append(tolerant, i)
			}
		}
		if len(tolerant) > 0 {
			return tolerant
		}
	}
	return idx.byFolded[sub.folded]
}

// ordinalEligible reports whether positional pairing may replace the result:
// counts match, nothing is episodic, and no subtitle has a literal candidate,
// so an ambiguous subtitle is never paired by position.
func (idx *index) ordinalEligible(subtitles []keyed) bool {
	if len(idx.videos) == 0 || len(idx.videos) != len(subtitles) {
		return false
	}
	for _, v := range idx.videos {
		if v.key.IsEpisodic() {
			return false
		}
	}
	for _, s := range subtitles {
		if s.key.IsEpisodic() || len(idx.byFolded[s.folded]) > 0 {
			return false
		}
	}
	return true
}

func ordinalPairs(videos, subtitles []keyed) Result {
	vids := sortNatural(videos)
	subs := sortNatural(subtitles)
	result := Result{Pairs: make([]Pair, len(subs)), Ordinal: true}
	for i := range subs {
		key := identity.Ordinal(uint32(i + 1))
		result.Pairs[i] = Pair{
			Video:       vids[i].entry,
			Subtitle:    subs[i].entry,
			VideoKey:    key,
			SubtitleKey: key,
			Confidence:  ConfidenceOrdinal,
		}
	}
	return result
}

// sortNatural orders by base name, then by full path so entries with the
// same name in different directories have a fixed order.
func sortNatural(entries []keyed) []keyed {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b keyed) int {
		if c := textutil.NaturalCompare(filepath.Base(a.entry.Path), filepath.Base(b.entry.Path)); c != 0 {
			return c
		}
		return strings.Compare(a.entry.Path, b.entry.Path)
	})
	return sorted
}
