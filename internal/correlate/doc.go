// Package correlate pairs subtitles with videos by identity key.
//
// Matching runs in precedence order: exact episode tuple, season-tolerant
// episode, then folded stem equality. Anything with more than one candidate
// is reported as ambiguous instead of guessed. When nothing pairs and neither
// side carries episode numbering, an ordinal fallback zips both sides in
// natural filename order, which covers sets like "1.srt, 2.srt" next to
// "Movie Part A.mkv, Movie Part B.mkv".
package correlate
