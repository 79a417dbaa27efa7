// Package matcher decides whether a free-text answer is acceptably
// close to an expected answer, tolerating minor typos and
// transcription noise. It is deliberately literal: no stemming, no
// synonym matching.
package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tolerance grows with answer length: 15% of the normalized expected
// text, but never less than one edit
const (
	tolerancePercent = 15
	minTolerance     = 1
)

// Normalize canonicalizes a text answer for comparison: lowercase,
// diacritics stripped, everything except letters, digits and spaces
// removed, whitespace runs collapsed to a single space. Idempotent and
// never fails; malformed input degrades to an empty string.
func Normalize(s string) string {
	folded := stripDiacritics(s)
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	// Collapse whitespace runs and trim
	return strings.Join(strings.Fields(b.String()), " ")
}

// stripDiacritics removes combining marks so that "você" compares
// equal to "voce". Required for accent-insensitive Portuguese matching.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// EditDistance returns the Levenshtein distance between a and b,
// counting single-rune insertions, deletions and substitutions. Only
// one row of the DP matrix is kept.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		prev := row[0] // row[j-1] of the previous row
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cur := row[j]

			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			d := prev + cost // substitution
			if del := cur + 1; del < d {
				d = del // deletion from a
			}
			if ins := row[j-1] + 1; ins < d {
				d = ins // insertion into a
			}

			row[j] = d
			prev = cur
		}
	}

	return row[len(rb)]
}

// Tolerance returns the maximum edit distance still counted as correct
// for the given normalized expected answer.
func Tolerance(normalizedExpected string) int {
	t := len([]rune(normalizedExpected)) * tolerancePercent / 100
	if t < minTolerance {
		t = minTolerance
	}
	return t
}

// IsCloseEnough reports whether candidate counts as a correct answer
// for expected. Both are normalized first; exact normalized matches are
// always accepted, otherwise the edit distance must stay within the
// length-proportional tolerance.
func IsCloseEnough(candidate, expected string) bool {
	nc := Normalize(candidate)
	ne := Normalize(expected)

	if nc == ne {
		return true
	}

	return EditDistance(nc, ne) <= Tolerance(ne)
}
