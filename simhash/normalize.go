package simhash

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeFunc canonicalizes raw text before tokenization.
type NormalizeFunc func(string) string

// Normalize is the default normalizer: NFKC Unicode canonicalization,
// full case folding, every non-word rune replaced by an ASCII space, and
// space runs collapsed to one with no leading or trailing space.
//
// It is total: any input produces a valid (possibly empty) output.
func Normalize(text string) string {
	text = norm.NFKC.String(text)

	// cases.Fold returns a stateful Caser, so build one per call.
	text = cases.Fold().String(text)

	mapped := strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return ' '
	}, text)

	return strings.Join(strings.Fields(mapped), " ")
}

// isWordRune reports whether r survives normalization. Letters, numbers,
// combining marks, and connector punctuation count as word runes (the
// Unicode \w class).
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || unicode.Is(unicode.Pc, r)
}
