package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/simprint/models"
	"github.com/use-agent/simprint/simhash"
)

// Health returns a handler for GET /api/v1/health.
//
// Fingerprinting holds no external resources, so a serving process is a
// healthy process. The response also advertises the available digests so
// clients can pick one without trial and error.
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: "0.1.0",
			Digests: simhash.DigestNames(),
		})
	}
}
