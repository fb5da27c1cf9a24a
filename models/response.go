package models

// FingerprintResponse is the response for POST /api/v1/fingerprint.
type FingerprintResponse struct {
	// Success indicates whether fingerprinting completed without errors.
	Success bool `json:"success"`

	// Fingerprint is the hex-encoded fingerprint.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Bits is the fingerprint length in bits.
	Bits int `json:"bits,omitempty"`

	// Digest is the hash function that produced the per-shingle digests.
	Digest string `json:"digest,omitempty"`

	// Mode is the tokenization mode used ("words", "chars", "dom").
	Mode string `json:"mode,omitempty"`

	// ShingleWidth is the n-gram window size used.
	ShingleWidth int `json:"shingle_width,omitempty"`

	// Tokens is the number of tokens that entered shingling.
	Tokens int `json:"tokens"`

	// Shingles is the number of shingles hashed.
	Shingles int `json:"shingles"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// ExtractMs is the time spent extracting text from HTML. Zero for
	// plain-text input.
	ExtractMs int64 `json:"extract_ms,omitempty"`

	// FingerprintMs is the time spent shingling and hashing.
	FingerprintMs int64 `json:"fingerprint_ms"`
}

// CompareResponse is the response for POST /api/v1/compare.
type CompareResponse struct {
	// Success indicates whether the comparison completed without errors.
	Success bool `json:"success"`

	// Distance is the Hamming distance between the two fingerprints.
	Distance int `json:"distance"`

	// Bits is the fingerprint length in bits.
	Bits int `json:"bits"`

	// Threshold is the distance bound used for the similarity verdict.
	Threshold int `json:"threshold"`

	// Similar reports whether Distance <= Threshold.
	Similar bool `json:"similar"`

	// FingerprintA and FingerprintB are the hex-encoded fingerprints.
	FingerprintA string `json:"fingerprint_a,omitempty"`
	FingerprintB string `json:"fingerprint_b,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// DedupeGroup is one cluster of near-duplicate texts.
type DedupeGroup struct {
	// Representative is the index (into the request's texts) of the
	// group's first member.
	Representative int `json:"representative"`

	// Members are the indexes of all texts in the group, representative
	// included, in input order.
	Members []int `json:"members"`

	// MaxDistance is the largest Hamming distance between the
	// representative and any member.
	MaxDistance int `json:"max_distance"`
}

// DedupeResponse is the response for POST /api/v1/dedupe.
type DedupeResponse struct {
	// Success indicates whether deduplication completed without errors.
	Success bool `json:"success"`

	// Groups are the near-duplicate clusters, in order of their
	// representatives.
	Groups []DedupeGroup `json:"groups,omitempty"`

	// Unique is the number of groups, i.e. distinct texts after
	// deduplication.
	Unique int `json:"unique"`

	// Duplicates is the number of texts that joined an existing group.
	Duplicates int `json:"duplicates"`

	// Threshold is the distance bound used for grouping.
	Threshold int `json:"threshold"`

	// Bits is the fingerprint length in bits.
	Bits int `json:"bits"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // "healthy" once the router is serving
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	// Digests lists the hash functions this server can fingerprint with.
	Digests []string `json:"digests"`
}
