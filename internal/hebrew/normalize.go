// Package hebrew provides text normalization for Hebrew surface forms.
//
// Cache keys are derived from the normalized form, so Normalize must be
// deterministic and idempotent: applying it twice yields the same result
// as applying it once.
package hebrew

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Hebrew cantillation marks and vowel points occupy U+0591..U+05C7.
// Stripping the whole block removes niqqud, so בַּיִת and בית share a key.
const (
	pointsLow  = '֑'
	pointsHigh = 'ׇ'
)

// Normalize canonicalizes a Hebrew surface form for cache-key matching.
// It folds the input to NFC, removes vowel points and cantillation marks,
// and trims surrounding whitespace. It never fails: empty or non-Hebrew
// input passes through with the same treatment.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= pointsLow && r <= pointsHigh {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// HasNiqqud reports whether the string contains any Hebrew vowel points
// or cantillation marks. Used by the provider parser to decide whether a
// fetched form still carries pointing worth keeping for display.
func HasNiqqud(s string) bool {
	for _, r := range s {
		if r >= pointsLow && r <= pointsHigh {
			return true
		}
	}
	return false
}
