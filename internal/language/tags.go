package language

import (
	"regexp"
	"strconv"
	"strings"

	xlanguage "golang.org/x/text/language"
)

// variantWords describe a subtitle track rather than its language.
var variantWords = map[string]string{
	"forced":  "Forced",
	"sdh":     "SDH",
	"cc":      "CC",
	"hi":      "Hearing impaired",
	"default": "Default",
	"signs":   "Signs",
	"full":    "Full",
}

const tagSeparators = "._- "

var (
	bracketTagPattern = regexp.MustCompile(`[\[(]\s*([^\[\]()]+?)\s*[\])]\s*$`)
	regionTagPattern  = regexp.MustCompile(`[._ -]([A-Za-z]{2,3}[-_](?:[A-Za-z]{2}|[A-Za-z]{4}))$`)
	// disambiguatorPattern matches the ".N" suffix added when two renamed
	// subtitles would otherwise share a destination.
	disambiguatorPattern = regexp.MustCompile(`\.([2-9]|[1-9][0-9])$`)
)

// TrailingTags is a subtitle stem split into its matchable core and the
// language/variant tags that follow it.
type TrailingTags struct {
	// Core is the stem with tags (and any disambiguator after them) removed.
	Core string
	// Tags holds the recognized tags verbatim, in filename order.
	Tags []string
	// Disambiguator is the collision counter found after the tags, or 0.
	Disambiguator int
}

// Suffix returns the tags joined for use in a filename, with a leading dot,
// or "" when there are none.
func (t TrailingTags) Suffix() string {
	if len(t.Tags) == 0 {
		return ""
	}
	return "." + strings.Join(t.Tags, ".")
}

// IsTag reports whether token is a recognized language code, language name,
// BCP 47 tag, or variant word.
func IsTag(token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return false
	}
	if _, ok := variantWords[token]; ok {
		return true
	}
	if lookup(token) != nil {
		return true
	}
	return isRegionalTag(token)
}

// isRegionalTag accepts "pt-BR" style tags whose base language is known.
func isRegionalTag(token string) bool {
	normalized := strings.ReplaceAll(token, "_", "-")
	base, _, ok := strings.Cut(normalized, "-")
	if !ok || lookup(base) == nil {
		return false
	}
	_, err := xlanguage.Parse(normalized)
	return err == nil
}

// SplitTrailingTags peels recognized tags off the end of stem. Tokens are
// separated by dots, underscores, hyphens, or spaces; a trailing "[eng]" or
// "(English)" group is accepted when its content is a tag. The first token of
// the stem is never treated as a tag.
func SplitTrailingTags(stem string) TrailingTags {
	rest := strings.TrimSpace(stem)
	disambiguator := 0
	if m := disambiguatorPattern.FindStringSubmatchIndex(rest); m != nil {
		if n, err := strconv.Atoi(rest[m[2]:m[3]]); err == nil {
			disambiguator = n
			rest = rest[:m[0]]
		}
	}

	var reversed []string
	for {
		tag, remaining, ok := peelTag(rest)
		if !ok {
			break
		}
		reversed = append(reversed, tag)
		rest = remaining
	}

	if len(reversed) == 0 {
		return TrailingTags{Core: strings.TrimSpace(stem)}
	}
	tags := make([]string, len(reversed))
	for i, tag := range reversed {
		tags[len(reversed)-1-i] = tag
	}
	return TrailingTags{Core: rest, Tags: tags, Disambiguator: disambiguator}
}

func peelTag(rest string) (tag, remaining string, ok bool) {
	if m := bracketTagPattern.FindStringSubmatchIndex(rest); m != nil {
		inner := rest[m[2]:m[3]]
		remaining = strings.TrimRight(rest[:m[0]], tagSeparators)
		if remaining != "" && IsTag(inner) {
			return inner, remaining, true
		}
		return "", rest, false
	}
	if m := regionTagPattern.FindStringSubmatchIndex(rest); m != nil {
		candidate := rest[m[2]:m[3]]
		remaining = strings.TrimRight(rest[:m[0]], tagSeparators)
		if remaining != "" && isRegionalTag(strings.ToLower(candidate)) {
			return candidate, remaining, true
		}
	}
	idx := strings.LastIndexAny(rest, tagSeparators)
	if idx <= 0 {
		return "", rest, false
	}
	token := rest[idx+1:]
	remaining = strings.TrimRight(rest[:idx], tagSeparators)
	if remaining == "" || !IsTag(token) {
		return "", rest, false
	}
	return token, remaining, true
}

// DescribeTags renders tags as display names, e.g. "English, Forced".
func DescribeTags(tags []string) string {
	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		lower := strings.ToLower(strings.TrimSpace(tag))
		if label, ok := variantWords[lower]; ok && lookup(lower) == nil {
			labels = append(labels, label)
			continue
		}
		base, region, hasRegion := strings.Cut(strings.ReplaceAll(lower, "_", "-"), "-")
		if hasRegion && lookup(base) != nil {
			labels = append(labels, DisplayName(base)+" ("+strings.ToUpper(region)+")")
			continue
		}
		labels = append(labels, DisplayName(lower))
	}
	return strings.Join(labels, ", ")
}
