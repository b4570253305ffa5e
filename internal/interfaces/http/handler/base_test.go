package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/interfaces/http/dto"
	"github.com/rwbiz/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext("GET", "/", "")

	h.Success(c, "Loaded", map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Loaded", resp.Message)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext("GET", "/", "")

	// Zero paging falls back to the defaults
	h.SuccessWithMeta(c, "Listed", []string{"a", "b"}, 45, 0, 0)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerCreatedAndNoContent(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext("POST", "/", "")
	h.Created(c, "Created", map[string]string{"id": "1"})
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext("DELETE", "/", "")
	h.NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandlerAttachment(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext("GET", "/", "")

	h.Attachment(c, "tax-20250601.pdf", "application/pdf", []byte("%PDF-1.7"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="tax-20250601.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", w.Body.String())
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NotFound("Invoice"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"invalid input", shared.InvalidInput("bad amount"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"invalid state", shared.InvalidState("already paid"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"forbidden", shared.Forbidden("owners only"), http.StatusForbidden, dto.ErrCodeForbidden},
		{"conflict", shared.NewDomainError(shared.CodeAlreadyExists, "duplicate TIN"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"export unavailable", shared.NewDomainError(dto.ErrCodeUnavailable, "PDF export is not configured"), http.StatusServiceUnavailable, dto.ErrCodeUnavailable},
		{"wrapped domain error", fmt.Errorf("load: %w", shared.NotFound("Person")), http.StatusNotFound, dto.ErrCodeNotFound},
		{"payload too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext("GET", "/", "")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleError_Details(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext("GET", "/", "")
	c.Set(middleware.RequestIDKey, "req-42")

	err := shared.InvalidInput("Shares exceed the authorized total").
		WithDetails(map[string]any{"available": float64(150)})
	h.HandleError(c, err)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, float64(150), resp.Error.Details["available"])
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

type bindTarget struct {
	Email string `json:"email" form:"email" binding:"required,email"`
	Count int    `json:"count" form:"count"`
}

func TestBaseHandlerBindJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantCode   string
	}{
		{"valid body", `{"email":"a@b.rw","count":2}`, true, 0, ""},
		{"malformed json", `{"email":`, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"wrong field type", `{"email":"a@b.rw","count":"two"}`, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"validation failure", `{"email":"not-an-email"}`, false, http.StatusBadRequest, dto.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext("POST", "/", tt.body)

			var req bindTarget
			ok := h.bindJSON(c, &req)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "a@b.rw", req.Email)
				return
			}
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantCode == dto.ErrCodeValidation {
				assert.NotEmpty(t, resp.Error.Fields)
			}
		})
	}
}

func TestBaseHandlerBindQuery(t *testing.T) {
	h := &BaseHandler{}

	c, _ := newTestContext("GET", "/?email=a@b.rw&count=3", "")
	var ok bindTarget
	require.True(t, h.bindQuery(c, &ok))
	assert.Equal(t, 3, ok.Count)

	c, w := newTestContext("GET", "/?email=a@b.rw&count=three", "")
	var bad bindTarget
	assert.False(t, h.bindQuery(c, &bad))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
}

func TestBaseHandlerPathUUID(t *testing.T) {
	h := &BaseHandler{}
	id := uuid.New()

	c, _ := newTestContext("GET", "/", "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.pathUUID(c, "id", "invoice")
	require.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newTestContext("GET", "/", "")
	c.Params = gin.Params{{Key: "id", Value: "INV-1"}}
	_, ok = h.pathUUID(c, "id", "invoice")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInvalidID, resp.Error.Code)
	assert.Equal(t, "Invalid invoice ID format", resp.Error.Message)
}

func TestBaseHandlerQueryHelpers(t *testing.T) {
	h := &BaseHandler{}

	c, _ := newTestContext("GET", "/", "")
	year, ok := h.queryInt(c, "year", 2025)
	require.True(t, ok)
	assert.Equal(t, 2025, year)

	c, w := newTestContext("GET", "/?year=twenty", "")
	_, ok = h.queryInt(c, "year", 2025)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, _ = newTestContext("GET", "/?as_of=2026-03-31", "")
	asOf, ok := h.queryDate(c, "as_of", time.Time{})
	require.True(t, ok)
	assert.Equal(t, "2026-03-31", asOf.Format("2006-01-02"))

	c, w = newTestContext("GET", "/?as_of=31/03/2026", "")
	_, ok = h.queryDate(c, "as_of", time.Time{})
	assert.False(t, ok)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
}

func TestBaseHandlerRequireActor(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext("GET", "/", "")

	_, ok := h.requireActor(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
