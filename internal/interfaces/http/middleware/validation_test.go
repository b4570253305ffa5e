package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rwbiz/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationError(t *testing.T) {
	type input struct {
		Email string `json:"email" binding:"required,email"`
		Month int    `json:"month" binding:"required,min=1,max=12"`
	}
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req input
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("reports fields by json name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"email":"invalid","month":13}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
		assert.ElementsMatch(t, []dto.ValidationDetail{
			{Field: "email", Message: "Invalid email format"},
			{Field: "month", Message: "Must be at most 12"},
		}, resp.Error.Fields)
	})

	t.Run("valid input passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"email":"a@example.rw","month":6}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Name  string   `binding:"required"`
		Code  string   `binding:"len=3"`
		Short string   `binding:"min=5"`
		Kind  string   `binding:"oneof=BOARD AGM"`
		Rate  int      `binding:"gte=10"`
		Color string   `binding:"hexcolor"`
		Items []string `binding:"min=1"`
	}
	v := validator.New()
	v.SetTagName("binding")

	err := v.Struct(sample{Code: "RW", Short: "ab", Kind: "X", Rate: 1, Color: "blue"})
	require.Error(t, err)

	got := map[string]string{}
	for _, d := range ValidationDetails(err) {
		got[d.Field] = d.Message
	}
	assert.Equal(t, map[string]string{
		"Name":  "This field is required",
		"Code":  "Must be exactly 3 characters",
		"Short": "Must be at least 5 characters",
		"Kind":  "Must be one of: BOARD AGM",
		"Rate":  "Must be greater than or equal to 10",
		"Color": "Must be a hex color such as #1E88E5",
		"Items": "Must contain at least 1 items",
	}, got)
}

func TestValidationDetails_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}
