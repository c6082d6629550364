package plan

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"subrename/internal/correlate"
	"subrename/internal/language"
	"subrename/internal/logging"
	"subrename/internal/textutil"
)

// Item is one planned rename. Destination is always derived from Pair.
type Item struct {
	Source            string
	Destination       string
	CollisionResolved bool
	Tags              []string
	Pair              correlate.Pair
}

// Plan is the ordered list of renames plus what was left alone.
type Plan struct {
	Items []Item
	// Skipped holds items dropped by the skip collision policy. Destination
	// is the path that was already claimed.
	Skipped []Item
	// Unchanged holds pairs whose subtitle already carries the target name.
	Unchanged []Item
}

// Builder assigns destinations. It is not safe for concurrent use.
type Builder struct {
	policy   CollisionPolicy
	reserved map[string]struct{}
	logger   *slog.Logger
}

// NewBuilder returns a builder applying policy. A nil logger discards output.
func NewBuilder(policy CollisionPolicy, logger *slog.Logger) *Builder {
	if policy == "" {
		policy = CollisionSuffix
	}
	return &Builder{
		policy:   policy,
		reserved: make(map[string]struct{}),
		logger:   logging.NewComponentLogger(logger, "plan"),
	}
}

// Reserve marks existing paths. A reserved path that is not the source of a
// planned rename is never used as a destination.
func (b *Builder) Reserve(paths ...string) {
	for _, p := range paths {
		b.reserved[filepath.Clean(p)] = struct{}{}
	}
}

// Build plans pairs with the default suffix policy and no reserved paths.
func Build(pairs []correlate.Pair) Plan {
	return NewBuilder(CollisionSuffix, nil).Build(pairs)
}

type candidate struct {
	item Item
	stem string
	ext  string
	noop bool
}

// Build assigns a destination to every pair. Pairs are taken in natural
// order of the subtitle name, then full path, so counters never depend on
// the order the files were listed in.
func (b *Builder) Build(pairs []correlate.Pair) Plan {
	candidates := make([]candidate, len(pairs))
	for i, pair := range pairs {
		candidates[i] = newCandidate(pair)
	}
	slices.SortStableFunc(candidates, compareSource)

	// owners maps a claimed path to the source that holds it. Sources of
	// pending renames stay claimed until their own turn.
	owners := make(map[string]string, len(b.reserved)+len(pairs))
	for p := range b.reserved {
		owners[p] = p
	}
	pending := make(map[string]int)
	var result Plan
	for _, c := range candidates {
		if c.noop {
			result.Unchanged = append(result.Unchanged, c.item)
			owners[c.item.Source] = c.item.Source
			continue
		}
		delete(owners, c.item.Source)
		pending[c.item.Source]++
	}

	for _, c := range candidates {
		if c.noop {
			continue
		}
		item := c.item
		if pending[item.Source]--; pending[item.Source] <= 0 {
			delete(pending, item.Source)
		}

		if claimed(owners, pending, item.Destination) {
			if b.policy == CollisionSkip {
				owners[item.Source] = item.Source
				result.Skipped = append(result.Skipped, item)
				b.logger.Debug("rename skipped on collision",
					logging.String("source", item.Source),
					logging.String("destination", item.Destination),
				)
				continue
			}
			item.Destination = disambiguate(owners, pending, c)
			item.CollisionResolved = true
			b.logger.Debug("destination disambiguated",
				logging.String("source", item.Source),
				logging.String("destination", item.Destination),
			)
		}
		owners[item.Destination] = item.Source
		result.Items = append(result.Items, item)
	}
	return result
}

func compareSource(a, b candidate) int {
	if c := textutil.NaturalCompare(filepath.Base(a.item.Source), filepath.Base(b.item.Source)); c != 0 {
		return c
	}
	return strings.Compare(a.item.Source, b.item.Source)
}

func claimed(owners map[string]string, pending map[string]int, path string) bool {
	if _, ok := owners[path]; ok {
		return true
	}
	_, ok := pending[path]
	return ok
}

func disambiguate(owners map[string]string, pending map[string]int, c candidate) string {
	dir := filepath.Dir(c.item.Source)
	for n := 2; ; n++ {
		path := filepath.Join(dir, disambiguatedBase(c.stem, n, c.ext))
		if !claimed(owners, pending, path) {
			return path
		}
	}
}

func newCandidate(pair correlate.Pair) candidate {
	source := filepath.Clean(pair.Subtitle.Path)
	sourceBase := filepath.Base(source)
	ext := strings.TrimPrefix(filepath.Ext(sourceBase), ".")
	sourceStem := strings.TrimSuffix(sourceBase, filepath.Ext(sourceBase))

	tags := language.SplitTrailingTags(sourceStem)
	stem := pair.Video.Stem + tags.Suffix()
	item := Item{
		Source:      source,
		Destination: filepath.Join(filepath.Dir(source), joinExt(stem, ext)),
		Tags:        tags.Tags,
		Pair:        pair,
	}
	return candidate{
		item: item,
		stem: stem,
		ext:  ext,
		noop: item.Destination == source || isDisambiguated(sourceStem, stem),
	}
}

// isDisambiguated reports whether sourceStem is stem plus a counter this
// package would have assigned, so a second run leaves it alone.
func isDisambiguated(sourceStem, stem string) bool {
	rest, ok := strings.CutPrefix(sourceStem, stem+".")
	if !ok {
		return false
	}
	n, err := strconv.Atoi(rest)
	return err == nil && n >= 2 && strconv.Itoa(n) == rest
}

func disambiguatedBase(stem string, n int, ext string) string {
	return joinExt(fmt.Sprintf("%s.%d", stem, n), ext)
}

func joinExt(stem, ext string) string {
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}
