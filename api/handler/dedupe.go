package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/simprint/config"
	"github.com/use-agent/simprint/models"
	"github.com/use-agent/simprint/simhash"
)

// Dedupe returns a handler for POST /api/v1/dedupe.
//
// Orchestration flow:
//  1. Parse & validate request (plain texts only), apply defaults.
//  2. Fingerprint every text with concurrency limited by a semaphore.
//  3. Greedy grouping: each text joins the first group whose representative
//     is within the threshold, otherwise it starts a new group.
//
// The work is CPU-bound and millisecond-scale, so the request completes
// synchronously; there is no job store to poll.
func Dedupe(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.DedupeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.DedupeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		if req.Options.Mode == "dom" {
			respondError(c, models.NewFingerprintError(models.ErrCodeInvalidInput,
				"dedupe accepts plain text only; dom mode needs html input", nil),
				models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}
		if len(req.Texts) > cfg.Limits.MaxBatchDocs {
			respondError(c, models.NewFingerprintError(models.ErrCodeBatchTooLarge,
				fmt.Sprintf("batch has %d texts, limit is %d", len(req.Texts), cfg.Limits.MaxBatchDocs), nil),
				models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}

		params, err := resolveParams(req.Options, cfg)
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			})
			return
		}

		// ── 2. Fingerprint all texts ────────────────────────────────
		// Hashing is CPU-bound, so cap workers at the core count.
		hashStart := time.Now()
		sem := make(chan struct{}, runtime.GOMAXPROCS(0))

		fps := make([][]byte, len(req.Texts))
		errs := make([]error, len(req.Texts))
		var wg sync.WaitGroup
		for i, text := range req.Texts {
			wg.Add(1)
			go func(idx int, text string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				res, err := fingerprintDocument(models.Document{Text: text}, params, cfg.Limits.MaxTextBytes)
				if err != nil {
					if fpErr, ok := err.(*models.FingerprintError); ok {
						err = models.NewFingerprintError(fpErr.Code,
							fmt.Sprintf("texts[%d]: %s", idx, fpErr.Message), fpErr.Err)
					}
					errs[idx] = err
					return
				}
				fps[idx] = res.fingerprint
			}(i, text)
		}
		wg.Wait()
		fingerprintMs := time.Since(hashStart).Milliseconds()

		for _, err := range errs {
			if err != nil {
				respondError(c, err, models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				})
				return
			}
		}

		// ── 3. Greedy grouping ─────────────────────────────────────
		bits := len(fps[0]) * 8
		threshold := defaultThreshold(bits)
		if req.Threshold != nil {
			threshold = *req.Threshold
		}

		var groups []models.DedupeGroup
		for i, fp := range fps {
			placed := false
			for gi := range groups {
				rep := groups[gi].Representative
				dist, err := simhash.Distance(fps[rep], fp)
				if err != nil {
					respondError(c, models.NewFingerprintError(models.ErrCodeInternal, err.Error(), err),
						models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
					return
				}
				if dist <= threshold {
					groups[gi].Members = append(groups[gi].Members, i)
					if dist > groups[gi].MaxDistance {
						groups[gi].MaxDistance = dist
					}
					placed = true
					break
				}
			}
			if !placed {
				groups = append(groups, models.DedupeGroup{
					Representative: i,
					Members:        []int{i},
				})
			}
		}

		duplicates := len(req.Texts) - len(groups)

		slog.Info("dedupe finished",
			"texts", len(req.Texts),
			"groups", len(groups),
			"duplicates", duplicates,
			"threshold", threshold,
		)

		c.JSON(http.StatusOK, models.DedupeResponse{
			Success:    true,
			Groups:     groups,
			Unique:     len(groups),
			Duplicates: duplicates,
			Threshold:  threshold,
			Bits:       bits,
			Timing: models.TimingInfo{
				TotalMs:       time.Since(totalStart).Milliseconds(),
				FingerprintMs: fingerprintMs,
			},
		})
	}
}
