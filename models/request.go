package models

// Document describes one input to fingerprint. Exactly one of Text or HTML
// must be set.
type Document struct {
	// Text is plain-text input, fingerprinted as-is.
	Text string `json:"text,omitempty"`

	// HTML is raw HTML input. Visible text is extracted before
	// fingerprinting, except in "dom" mode where the tag structure itself
	// is hashed.
	HTML string `json:"html,omitempty"`

	// SourceURL is the page URL for HTML input. Readability uses it to
	// resolve relative links during "article" extraction.
	SourceURL string `json:"source_url,omitempty" binding:"omitempty,url"`

	// HTMLMode controls text extraction from HTML input.
	// "text" (default): visible text of the whole document.
	// "article": readability main-content extraction, falling back to
	// whole-document text when it fails.
	HTMLMode string `json:"html_mode,omitempty" binding:"omitempty,oneof=text article"`

	// ExcludeSelectors are CSS selectors removed from the HTML before
	// extraction (e.g. "nav", ".comments").
	ExcludeSelectors []string `json:"exclude_selectors,omitempty"`
}

// Defaults applies default values to unset fields.
func (d *Document) Defaults() {
	if d.HTMLMode == "" {
		d.HTMLMode = "text"
	}
}

// FingerprintOptions select the hashing pipeline. Unset fields fall back to
// the server's configured defaults.
type FingerprintOptions struct {
	// Mode controls tokenization.
	// "words" (default): whitespace-delimited word shingles.
	// "chars": grapheme-cluster shingles, suited to short strings.
	// "dom": HTML tag-structure shingles. Requires HTML input.
	Mode string `json:"mode,omitempty" binding:"omitempty,oneof=words chars dom"`

	// ShingleWidth is the n-gram window size. Default: server config (3).
	ShingleWidth int `json:"shingle_width,omitempty" binding:"omitempty,min=1,max=16"`

	// Digest selects the hash function behind the fingerprint.
	// Default: server config ("md5").
	Digest string `json:"digest,omitempty" binding:"omitempty,oneof=md5 sha1 sha256 fnv64a fnv128a"`
}

// Defaults applies default values to unset fields.
func (o *FingerprintOptions) Defaults() {
	if o.Mode == "" {
		o.Mode = "words"
	}
}

// FingerprintRequest is the payload for POST /api/v1/fingerprint.
type FingerprintRequest struct {
	Document

	// Options select the hashing pipeline.
	Options FingerprintOptions `json:"options"`

	// UseCache serves repeated inputs from the fingerprint cache.
	// Default: true.
	UseCache *bool `json:"use_cache,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *FingerprintRequest) Defaults() {
	r.Document.Defaults()
	r.Options.Defaults()
	if r.UseCache == nil {
		t := true
		r.UseCache = &t
	}
}

// CompareRequest is the payload for POST /api/v1/compare.
type CompareRequest struct {
	// A and B are the two documents to compare. Both are fingerprinted
	// with the same options.
	A Document `json:"a"`
	B Document `json:"b"`

	// Options select the hashing pipeline.
	Options FingerprintOptions `json:"options"`

	// Threshold is the maximum Hamming distance at which the pair counts
	// as similar. Default: fingerprint bits / 20, minimum 1.
	Threshold *int `json:"threshold,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *CompareRequest) Defaults() {
	r.A.Defaults()
	r.B.Defaults()
	r.Options.Defaults()
}

// DedupeRequest is the payload for POST /api/v1/dedupe.
type DedupeRequest struct {
	// Texts are the plain-text documents to group. Response groups refer
	// to them by index.
	Texts []string `json:"texts" binding:"required,min=2"`

	// Options select the hashing pipeline. "dom" mode is rejected here
	// since dedupe input is plain text.
	Options FingerprintOptions `json:"options"`

	// Threshold is the maximum Hamming distance for two texts to share a
	// group. Default: fingerprint bits / 20, minimum 1.
	Threshold *int `json:"threshold,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *DedupeRequest) Defaults() {
	r.Options.Defaults()
}
