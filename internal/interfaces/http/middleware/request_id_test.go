package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, GetRequestID(c), logger.RequestID(c.Request.Context()))
		c.String(http.StatusOK, GetRequestID(c))
	})
	serve := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if id != "" {
			req.Header.Set(HeaderRequestID, id)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("generates an id", func(t *testing.T) {
		w := serve("")
		assert.Len(t, w.Header().Get(HeaderRequestID), 36)
		assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		w := serve("test-request-id")
		assert.Equal(t, "test-request-id", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "test-request-id", w.Body.String())
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		w := serve(strings.Repeat("a", maxRequestIDLength+1))
		assert.Len(t, w.Body.String(), 36)
	})
}
