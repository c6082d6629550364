// Package language recognizes the language and variant tags that subtitle
// files carry at the end of their names.
//
// Lookups accept ISO 639-1 and ISO 639-2 codes (including bibliographic
// alternates such as "fre"), lowercase English names, and BCP 47 tags with a
// region or script subtag ("pt-BR", "zh-Hans"). Variant words such as
// "forced" and "sdh" describe a track rather than its language and are
// recognized alongside language codes.
//
// SplitTrailingTags is the entry point used by the matching engine: it peels
// recognized tags off the end of a stem so the remaining core can be matched
// and the tags can be carried over verbatim to the renamed file.
package language
