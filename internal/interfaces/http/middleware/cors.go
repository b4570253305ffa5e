package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", HeaderRequestID, HeaderCompanyID, "Accept", "Origin"}
	defaultCORSExposed = []string{HeaderRequestID, "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
)

// CORSConfig lists what cross-origin callers may do. Without origins no
// CORS headers are sent at all. Empty method, header and exposed lists
// take the defaults above.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}

// CORS adapts rs/cors to gin. Preflight requests end here with 204.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	policy := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowOrigins,
		AllowedMethods:   orDefault(cfg.AllowMethods, defaultCORSMethods),
		AllowedHeaders:   orDefault(cfg.AllowHeaders, defaultCORSHeaders),
		ExposedHeaders:   orDefault(cfg.ExposeHeaders, defaultCORSExposed),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           int(cfg.MaxAge / time.Second),
	})
	return func(c *gin.Context) {
		policy.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
