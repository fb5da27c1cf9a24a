// Package simhash computes locality-sensitive SimHash fingerprints of
// text: similar inputs produce fingerprints with small Hamming distance,
// so near-duplicate detection becomes a cheap bit comparison instead of
// an exact match.
//
// The pipeline is normalize → tokenize → filter → shingle → digest →
// aggregate → threshold → pack. Each stage is pluggable through
// functional options; the defaults are NFKC/case-folded normalization,
// word tokens, shingle width 3, and MD5 digests (128-bit fingerprints).
//
// Fingerprints are raw bytes. Hex or base64 encoding for display is the
// caller's concern.
package simhash

import (
	"errors"
	"fmt"
	"math/bits"
)

// DefaultShingleWidth is the window width used when WithShingleWidth is
// not given.
const DefaultShingleWidth = 3

// Sentinel errors, always returned wrapped with context.
var (
	// ErrShingleWidth reports a non-positive shingle width.
	ErrShingleWidth = errors.New("shingle width must be positive")

	// ErrDigestWidth reports a digest whose byte length does not match
	// the width probed at the start of the computation.
	ErrDigestWidth = errors.New("digest width mismatch")

	// ErrDigestBits reports a WithDigestBits value outside the digest's
	// actual bit width.
	ErrDigestBits = errors.New("digest bit count out of range")

	// ErrFingerprintLength reports two fingerprints of different byte
	// lengths passed to Distance or Similar.
	ErrFingerprintLength = errors.New("fingerprint lengths differ")
)

// Pipeline is a reusable fingerprint configuration. Construct with New;
// the zero value has no stages. A Pipeline holds no per-computation state
// and is safe for concurrent use.
type Pipeline struct {
	width      int
	digest     DigestFunc
	digestBits int // 0 means the full probed digest width
	normalize  NormalizeFunc
	tokenize   TokenizeFunc
	filter     FilterFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithShingleWidth sets the shingle window width (default 3). Width 1
// selects bag-of-words mode.
func WithShingleWidth(width int) Option {
	return func(p *Pipeline) { p.width = width }
}

// WithDigest sets the per-shingle digest function (default MD5Digest).
func WithDigest(digest DigestFunc) Option {
	return func(p *Pipeline) { p.digest = digest }
}

// WithDigestBits restricts the fingerprint to the first n bits of each
// digest, MSB-first. Intended for digests whose logical width is not a
// byte multiple; n must be positive and at most the digest's bit width.
func WithDigestBits(n int) Option {
	return func(p *Pipeline) { p.digestBits = n }
}

// WithNormalizer replaces the default normalizer (Normalize).
func WithNormalizer(fn NormalizeFunc) Option {
	return func(p *Pipeline) { p.normalize = fn }
}

// WithTokenizer replaces the default tokenizer (TokenizeWords).
func WithTokenizer(fn TokenizeFunc) Option {
	return func(p *Pipeline) { p.tokenize = fn }
}

// WithFilter replaces the default identity filter.
func WithFilter(fn FilterFunc) Option {
	return func(p *Pipeline) { p.filter = fn }
}

// New builds a Pipeline with the default stages, then applies opts.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		width:     DefaultShingleWidth,
		digest:    MD5Digest,
		normalize: Normalize,
		tokenize:  TokenizeWords,
		filter:    IdentityFilter,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fingerprint runs the full pipeline over text and returns the packed
// fingerprint. Empty input is not an error: it yields an all-zero
// fingerprint of the digest's packed byte width.
func (p *Pipeline) Fingerprint(text string) ([]byte, error) {
	return p.fingerprint(p.tokenize(p.normalize(text)))
}

// FingerprintTokens runs the pipeline over a pre-built token sequence,
// skipping normalization and tokenization. The filter still applies.
func (p *Pipeline) FingerprintTokens(tokens []string) ([]byte, error) {
	return p.fingerprint(tokens)
}

func (p *Pipeline) fingerprint(tokens []string) ([]byte, error) {
	if p.width < 1 {
		return nil, fmt.Errorf("simhash: %w: %d", ErrShingleWidth, p.width)
	}

	// Probe the digest width once. Every shingle digest must match it
	// for the rest of this computation.
	widthBytes := len(p.digest(nil))
	if widthBytes == 0 {
		return nil, fmt.Errorf("simhash: %w: probe digest is empty", ErrDigestWidth)
	}
	widthBits := 8 * widthBytes
	if p.digestBits != 0 {
		if p.digestBits < 1 || p.digestBits > widthBits {
			return nil, fmt.Errorf("simhash: %w: %d not in [1, %d]", ErrDigestBits, p.digestBits, widthBits)
		}
		widthBits = p.digestBits
	}

	acc := make([]int, widthBits)
	for _, s := range Shingle(p.filter(tokens), p.width) {
		d := p.digest([]byte(s))
		if len(d) != widthBytes {
			return nil, fmt.Errorf("simhash: %w: got %d bytes, want %d", ErrDigestWidth, len(d), widthBytes)
		}
		accumulate(acc, d)
	}

	return packBits(threshold(acc)), nil
}

// Fingerprint computes the fingerprint of text with the default pipeline
// adjusted by opts.
func Fingerprint(text string, opts ...Option) ([]byte, error) {
	return New(opts...).Fingerprint(text)
}

// FingerprintWords fingerprints text using whitespace-delimited word
// tokens. The word tokenizer always applies, regardless of opts.
func FingerprintWords(text string, opts ...Option) ([]byte, error) {
	p := New(opts...)
	p.tokenize = TokenizeWords
	return p.Fingerprint(text)
}

// FingerprintChars fingerprints text using grapheme-cluster tokens,
// meant for short strings (usernames, email addresses) where word
// shingles are too coarse. The grapheme tokenizer always applies.
func FingerprintChars(text string, opts ...Option) ([]byte, error) {
	p := New(opts...)
	p.tokenize = TokenizeGraphemes
	return p.Fingerprint(text)
}

// FingerprintTokens fingerprints a pre-built token sequence, skipping
// normalization and tokenization.
func FingerprintTokens(tokens []string, opts ...Option) ([]byte, error) {
	return New(opts...).FingerprintTokens(tokens)
}

// Distance returns the Hamming distance between two packed fingerprints
// of the same byte length.
func Distance(a, b []byte) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("simhash: %w: %d vs %d bytes", ErrFingerprintLength, len(a), len(b))
	}
	dist := 0
	for i := range a {
		dist += bits.OnesCount8(a[i] ^ b[i])
	}
	return dist, nil
}

// Similar reports whether the Hamming distance between two fingerprints
// is at most threshold.
func Similar(a, b []byte, threshold int) (bool, error) {
	dist, err := Distance(a, b)
	if err != nil {
		return false, err
	}
	return dist <= threshold, nil
}
