package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/simprint/cache"
	"github.com/use-agent/simprint/config"
	"github.com/use-agent/simprint/models"
)

func testRouter() *gin.Engine {
	cfg := &config.Config{
		Server:      config.ServerConfig{Mode: gin.TestMode},
		Fingerprint: config.FingerprintConfig{ShingleWidth: 3, Digest: "md5"},
		Limits:      config.LimitsConfig{MaxTextBytes: 1 << 20, MaxBatchDocs: 200},
		Auth:        config.AuthConfig{Enabled: true, APIKeys: []string{"test-key"}},
		RateLimit:   config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		Cache:       config.CacheConfig{MaxEntries: 16},
	}
	return NewRouter(cfg, cache.New(cfg.Cache.MaxEntries), time.Now())
}

func TestRouter_HealthIsOpen(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health without API key: status = %d, want 200", w.Code)
	}
}

func TestRouter_FingerprintRequiresKey(t *testing.T) {
	r := testRouter()
	body := `{"text": "hello router world"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fingerprint", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("without key: status = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/fingerprint", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "test-key")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("with key: status = %d, body %s", w.Code, w.Body.String())
	}

	var resp models.FingerprintResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Fingerprint == "" {
		t.Errorf("response = %+v, want success with fingerprint", resp)
	}
}

func TestRouter_CompareAndDedupeRoutes(t *testing.T) {
	r := testRouter()

	tests := []struct {
		path string
		body string
	}{
		{"/api/v1/compare", `{"a": {"text": "same text"}, "b": {"text": "same text"}}`},
		{"/api/v1/dedupe", `{"texts": ["same text", "same text"]}`},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer test-key")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, body %s", tt.path, w.Code, w.Body.String())
		}
	}
}
