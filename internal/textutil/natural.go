package textutil

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NaturalCompare orders strings with embedded numbers by numeric value, so
// "Episode 2" sorts before "Episode 10". Letters compare case-insensitively.
// Equal numeric values with different zero padding order the shorter run
// first. Returns -1, 0, or +1.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			if c := compareDigitRuns(a[si:i], b[sj:j]); c != 0 {
				return c
			}
			continue
		}
		ra, na := utf8.DecodeRuneInString(a[i:])
		rb, nb := utf8.DecodeRuneInString(b[j:])
		la, lb := unicode.ToLower(ra), unicode.ToLower(rb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		i += na
		j += nb
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return 0
}

// NaturalLess reports whether a sorts before b in natural order. Strings that
// compare equal naturally fall back to byte order so sorting is total.
func NaturalLess(a, b string) bool {
	if c := NaturalCompare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

// SortNatural sorts values in place using NaturalLess.
func SortNatural(values []string) {
	slices.SortStableFunc(values, func(a, b string) int {
		if NaturalLess(a, b) {
			return -1
		}
		if NaturalLess(b, a) {
			return 1
		}
		return 0
	})
}

func compareDigitRuns(x, y string) int {
	tx := strings.TrimLeft(x, "0")
	ty := strings.TrimLeft(y, "0")
	if len(tx) != len(ty) {
		if len(tx) < len(ty) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(tx, ty); c != 0 {
		return c
	}
	switch {
	case len(x) < len(y):
		return -1
	case len(x) > len(y):
		return 1
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
