package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// FingerprintDOM computes a fingerprint of the DOM structure of an HTML
// document. Only start and self-closing tag names feed the pipeline, in
// document order; text content, attributes, and comments are ignored.
// Two pages with the same layout but different copy hash close together,
// which makes this useful for spotting template twins (e.g. an
// HTTP-fetched page versus its JS-rendered version).
func FingerprintDOM(htmlStr string, opts ...Option) ([]byte, error) {
	tags := Tags(htmlStr)

	p := New(opts...)
	if p.width > 1 && len(tags) < p.width {
		// Too few tags for a full window; fall back to bag-of-tags so a
		// minimal document still gets a usable fingerprint.
		p.width = 1
	}
	return p.FingerprintTokens(tags)
}

// Tags walks HTML with the tokenizer and collects start and self-closing
// tag names in document order. It is the token source for FingerprintDOM,
// exported so callers can report tag counts without re-parsing.
func Tags(htmlStr string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	var tags []string

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return tags
		case html.StartTagToken, html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			tags = append(tags, string(tn))
		}
	}
}
