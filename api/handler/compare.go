package handler

import (
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/simprint/config"
	"github.com/use-agent/simprint/models"
	"github.com/use-agent/simprint/simhash"
)

// Compare returns a handler for POST /api/v1/compare.
//
// Both documents run through an identical pipeline, concurrently since they
// are independent, then the response reports the Hamming distance and a
// similarity verdict against the threshold.
func Compare(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CompareResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		params, err := resolveParams(req.Options, cfg)
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			})
			return
		}

		// ── 2. Fingerprint both sides ──────────────────────────────
		var (
			wg         sync.WaitGroup
			resA, resB docResult
			errA, errB error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			resA, errA = fingerprintDocument(req.A, params, cfg.Limits.MaxTextBytes)
		}()
		go func() {
			defer wg.Done()
			resB, errB = fingerprintDocument(req.B, params, cfg.Limits.MaxTextBytes)
		}()
		wg.Wait()

		timing := models.TimingInfo{
			TotalMs:   time.Since(totalStart).Milliseconds(),
			ExtractMs: resA.extractMs + resB.extractMs,
		}
		if errA != nil {
			respondError(c, errA, timing)
			return
		}
		if errB != nil {
			respondError(c, errB, timing)
			return
		}

		// ── 3. Distance + verdict ──────────────────────────────────
		dist, err := simhash.Distance(resA.fingerprint, resB.fingerprint)
		if err != nil {
			respondError(c, models.NewFingerprintError(models.ErrCodeInternal, err.Error(), err), timing)
			return
		}

		bits := len(resA.fingerprint) * 8
		threshold := defaultThreshold(bits)
		if req.Threshold != nil {
			threshold = *req.Threshold
		}

		timing.TotalMs = time.Since(totalStart).Milliseconds()
		if timing.FingerprintMs = timing.TotalMs - timing.ExtractMs; timing.FingerprintMs < 0 {
			// Extraction runs on both goroutines at once, so the summed
			// extract time can exceed wall time.
			timing.FingerprintMs = 0
		}

		c.JSON(http.StatusOK, models.CompareResponse{
			Success:      true,
			Distance:     dist,
			Bits:         bits,
			Threshold:    threshold,
			Similar:      dist <= threshold,
			FingerprintA: hex.EncodeToString(resA.fingerprint),
			FingerprintB: hex.EncodeToString(resB.fingerprint),
			Timing:       timing,
		})
	}
}

// defaultThreshold scales the similarity bound with fingerprint size: one
// bit of tolerance per 20 fingerprint bits, minimum 1. That gives 3 for
// 64-bit and 6 for 128-bit fingerprints.
func defaultThreshold(bits int) int {
	t := bits / 20
	if t < 1 {
		t = 1
	}
	return t
}
