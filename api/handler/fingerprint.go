package handler

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/simprint/cache"
	"github.com/use-agent/simprint/config"
	"github.com/use-agent/simprint/htmltext"
	"github.com/use-agent/simprint/models"
	"github.com/use-agent/simprint/simhash"
)

// pipelineParams is the fully resolved hashing configuration for one request.
type pipelineParams struct {
	mode   string
	width  int
	digest string
	fn     simhash.DigestFunc
}

// docResult carries one document's fingerprint and its pipeline counters.
type docResult struct {
	fingerprint []byte
	tokens      int
	shingles    int
	width       int
	extractMs   int64
}

// Fingerprint returns a handler for POST /api/v1/fingerprint.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup (sha256 of pipeline params + input).
//  3. Extract text (HTML input) → tokenize → hash.  (records extract_ms / fingerprint_ms)
//  4. Fill Timing, return 200.
func Fingerprint(cfg *config.Config, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.FingerprintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.FingerprintResponse{
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

		// ── 1b. Cache lookup ───────────────────────────────────────
		useCache := cc != nil && *req.UseCache
		var cacheKey string
		if useCache {
			cacheKey = requestCacheKey(req.Document, params)
			if cached, hit := cc.Get(cacheKey); hit {
				c.JSON(http.StatusOK, models.FingerprintResponse{
					Success:      true,
					Fingerprint:  hex.EncodeToString(cached.Fingerprint),
					Bits:         len(cached.Fingerprint) * 8,
					Digest:       params.digest,
					Mode:         params.mode,
					ShingleWidth: cached.Width,
					Tokens:       cached.Tokens,
					Shingles:     cached.Shingles,
					Timing: models.TimingInfo{
						TotalMs: time.Since(totalStart).Milliseconds(),
					},
					CacheStatus: "hit",
				})
				return
			}
		}

		// ── 2. Fingerprint ──────────────────────────────────────────
		fpStart := time.Now()
		res, err := fingerprintDocument(req.Document, params, cfg.Limits.MaxTextBytes)
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			})
			return
		}
		fingerprintMs := time.Since(fpStart).Milliseconds() - res.extractMs

		// ── 3. Cache store + respond ───────────────────────────────
		resp := models.FingerprintResponse{
			Success:      true,
			Fingerprint:  hex.EncodeToString(res.fingerprint),
			Bits:         len(res.fingerprint) * 8,
			Digest:       params.digest,
			Mode:         params.mode,
			ShingleWidth: res.width,
			Tokens:       res.tokens,
			Shingles:     res.shingles,
			Timing: models.TimingInfo{
				TotalMs:       time.Since(totalStart).Milliseconds(),
				ExtractMs:     res.extractMs,
				FingerprintMs: fingerprintMs,
			},
		}
		if useCache {
			cc.Set(cacheKey, &cache.Entry{
				Fingerprint: res.fingerprint,
				Tokens:      res.tokens,
				Shingles:    res.shingles,
				Width:       res.width,
			})
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// resolveParams merges request options with server defaults and resolves
// the digest function. Config values are validated at startup, so a lookup
// failure here always means a bad request value.
func resolveParams(opts models.FingerprintOptions, cfg *config.Config) (pipelineParams, error) {
	p := pipelineParams{
		mode:   opts.Mode,
		width:  opts.ShingleWidth,
		digest: opts.Digest,
	}
	if p.mode == "" {
		p.mode = "words"
	}
	if p.width == 0 {
		p.width = cfg.Fingerprint.ShingleWidth
	}
	if p.digest == "" {
		p.digest = cfg.Fingerprint.Digest
	}

	fn, err := simhash.LookupDigest(p.digest)
	if err != nil {
		return pipelineParams{}, models.NewFingerprintError(models.ErrCodeInvalidInput, err.Error(), err)
	}
	p.fn = fn
	return p, nil
}

// fingerprintDocument validates one document and runs the full pipeline:
// extract (HTML input) → tokenize → shingle → hash.
func fingerprintDocument(doc models.Document, p pipelineParams, maxBytes int) (docResult, error) {
	hasText := doc.Text != ""
	hasHTML := doc.HTML != ""
	if hasText == hasHTML {
		return docResult{}, models.NewFingerprintError(models.ErrCodeInvalidInput,
			"exactly one of text or html must be provided", nil)
	}
	if p.mode == "dom" && !hasHTML {
		return docResult{}, models.NewFingerprintError(models.ErrCodeInvalidInput,
			"dom mode requires html input", nil)
	}

	input := doc.Text
	if hasHTML {
		input = doc.HTML
	}
	if len(input) > maxBytes {
		return docResult{}, models.NewFingerprintError(models.ErrCodeTextTooLarge,
			fmt.Sprintf("input is %d bytes, limit is %d", len(input), maxBytes), nil)
	}

	var res docResult
	var toks []string
	switch {
	case p.mode == "dom":
		toks = simhash.Tags(doc.HTML)
	case hasHTML:
		extractStart := time.Now()
		text, err := htmltext.Extract(doc.HTML, htmltext.Options{
			Mode:             htmltext.Mode(doc.HTMLMode),
			SourceURL:        doc.SourceURL,
			ExcludeSelectors: doc.ExcludeSelectors,
		})
		res.extractMs = time.Since(extractStart).Milliseconds()
		if err != nil {
			if errors.Is(err, htmltext.ErrInvalidSelector) {
				return docResult{}, models.NewFingerprintError(models.ErrCodeInvalidInput, err.Error(), err)
			}
			return docResult{}, models.NewFingerprintError(models.ErrCodeExtractionFailed, err.Error(), err)
		}
		toks = tokenize(text, p.mode)
	default:
		toks = tokenize(doc.Text, p.mode)
	}

	width := p.width
	if p.mode == "dom" && width > 1 && len(toks) < width {
		// Too few tags for a full window; fall back to bag-of-tags so a
		// minimal document still gets a usable fingerprint.
		width = 1
	}

	fp, err := simhash.FingerprintTokens(toks,
		simhash.WithShingleWidth(width),
		simhash.WithDigest(p.fn),
	)
	if err != nil {
		return docResult{}, models.NewFingerprintError(models.ErrCodeInternal, err.Error(), err)
	}

	res.fingerprint = fp
	res.tokens = len(toks)
	res.width = width
	if len(toks) >= width {
		res.shingles = len(toks) - width + 1
	}
	return res, nil
}

// tokenize mirrors the library's mode-specific tokenization so reported
// token counts and the fingerprint come from the same sequence.
func tokenize(text, mode string) []string {
	if mode == "chars" {
		return simhash.TokenizeGraphemes(simhash.Normalize(text))
	}
	return simhash.TokenizeWords(simhash.Normalize(text))
}

// requestCacheKey derives the cache key for a document. Extraction options
// shape the hashed text, so they fold into the key's mode component.
func requestCacheKey(doc models.Document, p pipelineParams) string {
	mode := p.mode
	input := doc.Text
	if doc.HTML != "" {
		input = doc.HTML
		if p.mode != "dom" {
			mode += "|" + doc.HTMLMode + "|" + strings.Join(doc.ExcludeSelectors, ",")
			if doc.HTMLMode == "article" {
				mode += "|" + doc.SourceURL
			}
		}
	}
	return cache.Key(p.digest, mode, p.width, input)
}

// respondError maps a FingerprintError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	fpErr, ok := err.(*models.FingerprintError)
	if !ok {
		fpErr = models.NewFingerprintError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(fpErr), models.FingerprintResponse{
		Success: false,
		Error:   fpErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.FingerprintError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeTextTooLarge, models.ErrCodeBatchTooLarge:
		return http.StatusRequestEntityTooLarge // 413
	case models.ErrCodeExtractionFailed:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
