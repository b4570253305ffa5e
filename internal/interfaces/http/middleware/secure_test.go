package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveSecure(cfg SecurityConfig) http.Header {
	router := gin.New()
	router.Use(Secure(cfg))
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	return w.Header()
}

func TestSecure_Defaults(t *testing.T) {
	h := serveSecure(SecurityConfig{})

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, defaultCSP, h.Get("Content-Security-Policy"))
	assert.Empty(t, h.Get("Strict-Transport-Security"))
}

func TestSecure_HSTSWithoutCSP(t *testing.T) {
	h := serveSecure(SecurityConfig{
		HSTSMaxAge:            730 * 24 * time.Hour,
		HSTSIncludeSubdomains: true,
		DisableCSP:            true,
	})

	assert.Equal(t, "max-age=63072000; includeSubDomains", h.Get("Strict-Transport-Security"))
	assert.Empty(t, h.Get("Content-Security-Policy"))
}

func TestSecure_CustomCSP(t *testing.T) {
	h := serveSecure(SecurityConfig{CSP: "default-src 'none'"})
	assert.Equal(t, "default-src 'none'", h.Get("Content-Security-Policy"))
}
