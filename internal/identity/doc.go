// Package identity derives the structural identity key of a media filename.
//
// A key is what the correlator compares when it pairs a subtitle with a
// video: an episodic season/episode tuple when the stem carries one, or the
// folded literal stem otherwise. Ordinal keys exist for the correlator's
// positional fallback and are never produced from a filename alone.
//
// Built-in rules are tried in a fixed priority order (SxxEyy, NxMM, episode
// keywords, a lone multi-digit number). An Extractor may also carry user
// supplied regular expressions which run before the built-ins.
package identity
