package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Fingerprint FingerprintConfig
	Limits      LimitsConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Cache       CacheConfig
	Log         LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FingerprintConfig sets the default hashing pipeline. Requests may
// override either field per call.
type FingerprintConfig struct {
	// ShingleWidth is the default n-gram window size.
	ShingleWidth int // default: 3

	// Digest is the default hash function name.
	Digest string // default: "md5"
}

// LimitsConfig bounds request sizes.
type LimitsConfig struct {
	// MaxTextBytes is the maximum size of a single text or HTML input.
	MaxTextBytes int // default: 1 MiB

	// MaxBatchDocs is the maximum number of texts in one dedupe request.
	MaxBatchDocs int // default: 200
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys (for MVP; replace with DB later).
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 20

	// Burst is the maximum burst size per API key.
	Burst int // default: 40
}

// CacheConfig controls the fingerprint cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached fingerprints.
	MaxEntries int // default: 4096
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SIMPRINT_HOST", "0.0.0.0"),
			Port: envIntOr("SIMPRINT_PORT", 8080),
			Mode: envOr("SIMPRINT_MODE", "release"),
		},
		Fingerprint: FingerprintConfig{
			ShingleWidth: envIntOr("SIMPRINT_SHINGLE_WIDTH", 3),
			Digest:       envOr("SIMPRINT_DIGEST", "md5"),
		},
		Limits: LimitsConfig{
			MaxTextBytes: envIntOr("SIMPRINT_MAX_TEXT_BYTES", 1<<20),
			MaxBatchDocs: envIntOr("SIMPRINT_MAX_BATCH_DOCS", 200),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SIMPRINT_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SIMPRINT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SIMPRINT_RATE_RPS", 20.0),
			Burst:             envIntOr("SIMPRINT_RATE_BURST", 40),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SIMPRINT_CACHE_MAX_ENTRIES", 4096),
		},
		Log: LogConfig{
			Level:  envOr("SIMPRINT_LOG_LEVEL", "info"),
			Format: envOr("SIMPRINT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
