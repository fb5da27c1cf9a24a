package simhash

import (
	"strings"

	"github.com/rivo/uniseg"
)

// TokenizeFunc splits normalized text into an ordered token sequence.
type TokenizeFunc func(string) []string

// FilterFunc drops or rewrites tokens between tokenization and shingling.
// Implementations must preserve the relative order of surviving tokens.
type FilterFunc func([]string) []string

// TokenizeWords splits text on whitespace runs, discarding empty tokens.
func TokenizeWords(text string) []string {
	return strings.Fields(text)
}

// TokenizeGraphemes splits text into user-perceived characters (Unicode
// extended grapheme clusters) rather than raw code points. Suited to
// short strings such as usernames or email addresses, where word shingles
// are too coarse.
func TokenizeGraphemes(text string) []string {
	if text == "" {
		return nil
	}
	tokens := make([]string, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		tokens = append(tokens, g.Str())
	}
	return tokens
}

// IdentityFilter returns the token sequence unchanged. It is the default
// filter.
func IdentityFilter(tokens []string) []string {
	return tokens
}

// NewStopWordFilter returns a FilterFunc that drops the listed tokens and
// keeps the rest in order. Comparison is exact, so callers normally pass
// already-normalized words.
func NewStopWordFilter(words ...string) FilterFunc {
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[w] = struct{}{}
	}
	return func(tokens []string) []string {
		kept := make([]string, 0, len(tokens))
		for _, t := range tokens {
			if _, ok := stop[t]; !ok {
				kept = append(kept, t)
			}
		}
		return kept
	}
}
