package simhash

import "strings"

// Shingle produces every contiguous window of exactly width tokens,
// stepping one token at a time. Each window is materialized as a single
// string with the tokens joined by one ASCII space, which fixes the
// digest input bytes exactly. Fewer than width tokens yields no shingles;
// trailing partial windows are discarded, never padded.
//
// Width 1 degrades to bag-of-words: every token is its own shingle and
// token order stops mattering to the final fingerprint.
func Shingle(tokens []string, width int) []string {
	if width < 1 || len(tokens) < width {
		return nil
	}
	shingles := make([]string, 0, len(tokens)-width+1)
	for i := 0; i+width <= len(tokens); i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+width], " "))
	}
	return shingles
}
