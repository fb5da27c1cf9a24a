// Package htmltext turns raw HTML into plain text suitable for
// fingerprinting. It offers whole-document extraction and a
// readability-based article mode that strips navigation, ads, and other
// boilerplate before hashing.
package htmltext

import (
	"errors"
	"fmt"
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	readability "github.com/go-shiori/go-readability"
)

// Mode selects the extraction strategy.
type Mode string

const (
	// ModeText extracts the visible text of the whole document.
	ModeText Mode = "text"
	// ModeArticle runs Mozilla Readability main-content extraction first
	// and falls back to ModeText when it fails.
	ModeArticle Mode = "article"
)

// minArticleLength is the minimum extracted text length (in bytes) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and fall back to
// whole-document text.
const minArticleLength = 50

// ErrInvalidSelector reports a CSS selector in Options.ExcludeSelectors
// that cascadia could not parse.
var ErrInvalidSelector = errors.New("invalid CSS selector")

// boilerplateSelectors match elements that carry no visible text and are
// always removed before whole-document extraction.
var boilerplateSelectors = []string{"script", "style", "noscript", "template"}

// Options control a single extraction.
type Options struct {
	// Mode selects the strategy. ModeArticle enables readability; every
	// other value, including the zero value, behaves as ModeText.
	Mode Mode

	// SourceURL is the page's original URL. Readability uses it to resolve
	// relative links; when empty, a placeholder is substituted.
	SourceURL string

	// ExcludeSelectors are CSS selectors whose matches are removed before
	// extraction, on top of the built-in boilerplate set.
	ExcludeSelectors []string
}

// Extract returns the plain text of rawHTML with whitespace runs collapsed
// to single spaces.
//
// Exclude selectors are validated and applied first, then the mode's
// strategy runs. A readability failure in ModeArticle is not an error; the
// whole-document text is returned instead so the caller always gets
// something to fingerprint.
func Extract(rawHTML string, opts Options) (string, error) {
	// goquery compiles selectors with MustCompile and panics on bad input,
	// so validate user-supplied selectors before any Find call.
	for _, sel := range opts.ExcludeSelectors {
		if _, err := cascadia.Parse(sel); err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidSelector, sel, err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	removeMatches(doc, opts.ExcludeSelectors)

	if opts.Mode == ModeArticle {
		pruned, err := doc.Html()
		if err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
		if text, ok := articleText(pruned, opts.SourceURL); ok {
			return text, nil
		}
	}

	removeMatches(doc, boilerplateSelectors)
	return collapse(doc.Text()), nil
}

// articleText runs readability on rawHTML and reports whether the result is
// usable. The API must never fail just because readability choked, so every
// failure path logs and returns ok=false rather than an error.
func articleText(rawHTML, sourceURL string) (string, bool) {
	if sourceURL == "" {
		sourceURL = "http://localhost/"
	}
	pageURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL, using whole-document text",
			"url", sourceURL, "error", err,
		)
		return "", false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		slog.Warn("readability: extraction failed, using whole-document text",
			"url", sourceURL, "error", err,
		)
		return "", false
	}

	text := collapse(article.TextContent)
	if len(text) < minArticleLength {
		slog.Warn("readability: extracted content too short, using whole-document text",
			"url", sourceURL, "length", len(text),
		)
		return "", false
	}
	return text, true
}

func removeMatches(doc *goquery.Document, selectors []string) {
	for _, sel := range selectors {
		doc.Find(sel).Remove()
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
