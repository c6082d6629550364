package identity

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"subrename/internal/textutil"
)

// rule is one built-in episodic pattern. season is the submatch index of the
// season number, 0 when the pattern carries none.
type rule struct {
	name    string
	pattern *regexp.Regexp
	season  int
	episode int
}

// rules are evaluated in order; the first rule whose numbers parse wins.
var rules = []rule{
	{
		name:    "season-episode",
		pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])s(\d+)[ ._-]?e(\d+)(?:[^0-9]|$)`),
		season:  1,
		episode: 2,
	},
	{
		name:    "cross",
		pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(\d{1,2})x(\d+)(?:[^0-9a-z]|$)`),
		season:  1,
		episode: 2,
	},
	{
		name:    "episode-keyword",
		pattern: regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(?:episode|ep|e)[ ._-]?(\d+)(?:[^0-9]|$)`),
		episode: 1,
	},
}

// tokenSplit separates stem tokens for the lone-number rule.
var tokenSplit = regexp.MustCompile(`[\s._\-\[\]()]+`)

// digitRun pulls the number out of a user pattern capture such as "S01".
var digitRun = regexp.MustCompile(`\d+`)

// ErrPatternGroups reports a user pattern without a capture group.
var ErrPatternGroups = errors.New("pattern must contain one or two capture groups")

// Extractor derives keys, trying user patterns before the built-in rules.
// The zero value uses only the built-ins.
type Extractor struct {
	patterns []*regexp.Regexp
}

// NewExtractor compiles user patterns. One capture group is read as the
// episode; two are read as season and episode.
func NewExtractor(patterns []string) (*Extractor, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", raw, err)
		}
		if re.NumSubexp() == 0 {
			return nil, fmt.Errorf("pattern %q: %w", raw, ErrPatternGroups)
		}
		compiled = append(compiled, re)
	}
	return &Extractor{patterns: compiled}, nil
}

// HasPatterns reports whether user patterns are configured.
func (e *Extractor) HasPatterns() bool {
	return e != nil && len(e.patterns) > 0
}

// Extract returns the package-level default extraction for stem.
func Extract(stem string) Key {
	var e *Extractor
	return e.Extract(stem)
}

// Extract derives the key for stem. Numbers that do not fit in 32 bits are
// treated as absent, so extraction never fails; it degrades to Literal.
func (e *Extractor) Extract(stem string) Key {
	if e != nil {
		for _, re := range e.patterns {
			if key, ok := matchUserPattern(re, stem); ok {
				return key
			}
		}
	}
	for _, r := range rules {
		if key, ok := r.match(stem); ok {
			return key
		}
	}
	if key, ok := loneNumber(stem); ok {
		return key
	}
	return Literal(textutil.FoldStem(stem))
}

func (r rule) match(stem string) (Key, bool) {
	m := r.pattern.FindStringSubmatch(stem)
	if m == nil {
		return Key{}, false
	}
	episode, ok := parseNumber(m[r.episode])
	if !ok {
		return Key{}, false
	}
	if r.season == 0 {
		return EpisodeOnly(episode), true
	}
	season, ok := parseNumber(m[r.season])
	if !ok {
		return Key{}, false
	}
	return Episodic(season, episode), true
}

func matchUserPattern(re *regexp.Regexp, stem string) (Key, bool) {
	m := re.FindStringSubmatch(stem)
	if m == nil {
		return Key{}, false
	}
	if re.NumSubexp() >= 2 {
		season, okSeason := parseNumber(digitRun.FindString(m[1]))
		episode, okEpisode := parseNumber(digitRun.FindString(m[2]))
		if okSeason && okEpisode {
			return Episodic(season, episode), true
		}
		return Key{}, false
	}
	episode, ok := parseNumber(digitRun.FindString(m[1]))
	if !ok {
		return Key{}, false
	}
	return EpisodeOnly(episode), true
}

// loneNumber accepts a multi-digit, purely numeric token when it is the only
// numeric token in the stem ("subs_02_eng", "[Group] Show - 12 [1080p]").
func loneNumber(stem string) (Key, bool) {
	var number string
	for _, token := range tokenSplit.Split(stem, -1) {
		if token == "" || !isNumeric(token) {
			continue
		}
		if number != "" {
			return Key{}, false
		}
		number = token
	}
	if len(number) < 2 {
		return Key{}, false
	}
	episode, ok := parseNumber(number)
	if !ok {
		return Key{}, false
	}
	return EpisodeOnly(episode), true
}

func parseNumber(value string) (uint32, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func isNumeric(token string) bool {
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}
	return true
}
