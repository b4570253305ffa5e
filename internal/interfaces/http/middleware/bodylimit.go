package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rwbiz/backend/internal/interfaces/http/dto"
)

// BodyLimitConfig caps request bodies. Routes listed in Overrides (by their
// registered pattern, e.g. "/api/v1/documents") use their own cap.
type BodyLimitConfig struct {
	MaxBytes  int64
	Overrides map[string]int64
}

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithConfig(BodyLimitConfig{MaxBytes: maxBytes})
}

// BodyLimitWithConfig returns a body limit middleware with per-route caps
func BodyLimitWithConfig(cfg BodyLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cfg.MaxBytes
		if override, ok := cfg.Overrides[c.FullPath()]; ok {
			limit = override
		}
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			abortWithCode(c, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
			return
		}

		// streamed bodies without a Content-Length fail on read instead
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
