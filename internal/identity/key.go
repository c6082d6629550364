package identity

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a Key holds.
type Kind int

const (
	KindLiteral Kind = iota
	KindEpisodic
	KindOrdinal
)

func (k Kind) String() string {
	switch k {
	case KindEpisodic:
		return "episodic"
	case KindOrdinal:
		return "ordinal"
	default:
		return "literal"
	}
}

// Key is the structural signature of one entry. Exactly one variant is set,
// selected by Kind; the fields of the other variants are zero.
type Key struct {
	Kind Kind

	// Episodic
	Season    uint32
	HasSeason bool
	Episode   uint32

	// Ordinal
	Position uint32

	// Literal
	Normalized string
}

// Episodic builds an episodic key with a known season.
func Episodic(season, episode uint32) Key {
	return Key{Kind: KindEpisodic, Season: season, HasSeason: true, Episode: episode}
}

// EpisodeOnly builds an episodic key whose season is unknown.
func EpisodeOnly(episode uint32) Key {
	return Key{Kind: KindEpisodic, Episode: episode}
}

// Ordinal builds a positional key (1-based position in natural order).
func Ordinal(position uint32) Key {
	return Key{Kind: KindOrdinal, Position: position}
}

// Literal builds a key from an already folded stem.
func Literal(normalized string) Key {
	return Key{Kind: KindLiteral, Normalized: normalized}
}

// IsEpisodic reports whether the key carries episode numbering.
func (k Key) IsEpisodic() bool {
	return k.Kind == KindEpisodic
}

// String renders the key for logs and reports: S01E02, E02, #3, or the
// quoted literal.
func (k Key) String() string {
	switch k.Kind {
	case KindEpisodic:
		if k.HasSeason {
			return fmt.Sprintf("S%02dE%02d", k.Season, k.Episode)
		}
		return fmt.Sprintf("E%02d", k.Episode)
	case KindOrdinal:
		return "#" + strconv.FormatUint(uint64(k.Position), 10)
	default:
		return strconv.Quote(k.Normalized)
	}
}
