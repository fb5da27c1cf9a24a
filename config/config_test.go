package config

import (
	"reflect"
	"testing"
)

// clearEnv blanks every variable Load reads so ambient environment cannot
// leak into default-value assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SIMPRINT_HOST", "SIMPRINT_PORT", "SIMPRINT_MODE",
		"SIMPRINT_SHINGLE_WIDTH", "SIMPRINT_DIGEST",
		"SIMPRINT_MAX_TEXT_BYTES", "SIMPRINT_MAX_BATCH_DOCS",
		"SIMPRINT_AUTH_ENABLED", "SIMPRINT_API_KEYS",
		"SIMPRINT_RATE_RPS", "SIMPRINT_RATE_BURST",
		"SIMPRINT_CACHE_MAX_ENTRIES",
		"SIMPRINT_LOG_LEVEL", "SIMPRINT_LOG_FORMAT",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 || cfg.Server.Mode != "release" {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Fingerprint.ShingleWidth != 3 || cfg.Fingerprint.Digest != "md5" {
		t.Errorf("fingerprint defaults = %+v", cfg.Fingerprint)
	}
	if cfg.Limits.MaxTextBytes != 1<<20 || cfg.Limits.MaxBatchDocs != 200 {
		t.Errorf("limits defaults = %+v", cfg.Limits)
	}
	if !cfg.Auth.Enabled || cfg.Auth.APIKeys != nil {
		t.Errorf("auth defaults = %+v", cfg.Auth)
	}
	if cfg.RateLimit.RequestsPerSecond != 20.0 || cfg.RateLimit.Burst != 40 {
		t.Errorf("rate limit defaults = %+v", cfg.RateLimit)
	}
	if cfg.Cache.MaxEntries != 4096 {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIMPRINT_PORT", "9090")
	t.Setenv("SIMPRINT_SHINGLE_WIDTH", "5")
	t.Setenv("SIMPRINT_DIGEST", "sha256")
	t.Setenv("SIMPRINT_MAX_TEXT_BYTES", "1024")
	t.Setenv("SIMPRINT_AUTH_ENABLED", "false")
	t.Setenv("SIMPRINT_API_KEYS", "key-one, key-two ,key-three")
	t.Setenv("SIMPRINT_RATE_RPS", "2.5")
	t.Setenv("SIMPRINT_LOG_FORMAT", "text")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Fingerprint.ShingleWidth != 5 {
		t.Errorf("ShingleWidth = %d, want 5", cfg.Fingerprint.ShingleWidth)
	}
	if cfg.Fingerprint.Digest != "sha256" {
		t.Errorf("Digest = %q, want sha256", cfg.Fingerprint.Digest)
	}
	if cfg.Limits.MaxTextBytes != 1024 {
		t.Errorf("MaxTextBytes = %d, want 1024", cfg.Limits.MaxTextBytes)
	}
	if cfg.Auth.Enabled {
		t.Error("Auth.Enabled = true, want false")
	}
	want := []string{"key-one", "key-two", "key-three"}
	if !reflect.DeepEqual(cfg.Auth.APIKeys, want) {
		t.Errorf("APIKeys = %v, want %v", cfg.Auth.APIKeys, want)
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v, want 2.5", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want text", cfg.Log.Format)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIMPRINT_PORT", "not-a-number")
	t.Setenv("SIMPRINT_RATE_RPS", "fast")
	t.Setenv("SIMPRINT_AUTH_ENABLED", "yes please")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.RateLimit.RequestsPerSecond != 20.0 {
		t.Errorf("RequestsPerSecond = %v, want default 20", cfg.RateLimit.RequestsPerSecond)
	}
	if !cfg.Auth.Enabled {
		t.Error("Auth.Enabled = false, want default true")
	}
}
