package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rwbiz/backend/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors report JSON (or form) field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

// ValidationDetails converts validator errors into per-field details.
// It returns nil when err carries none.
func ValidationDetails(err error) []dto.ValidationDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)}
	}
	return details
}

// HandleValidationError aborts with a VALIDATION_ERROR response
func HandleValidationError(c *gin.Context, err error) {
	resp := dto.NewValidationErrorResponse("Request validation failed", GetRequestID(c), ValidationDetails(err))
	c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeValidation), resp)
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"numeric":  "Must be numeric",
	"hexcolor": "Must be a hex color such as #1E88E5",
}

var boundPrefixes = map[string]string{
	"len":   "Must be exactly ",
	"oneof": "Must be one of: ",
	"gte":   "Must be greater than or equal to ",
	"lte":   "Must be less than or equal to ",
	"gt":    "Must be greater than ",
	"lt":    "Must be less than ",
}

func describe(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}
	if tag == "min" || tag == "max" {
		bound := "least"
		if tag == "max" {
			bound = "most"
		}
		return sizeMessage(fe.Kind(), bound, param)
	}
	if prefix, ok := boundPrefixes[tag]; ok {
		if tag == "len" {
			return prefix + param + " characters"
		}
		return prefix + param
	}
	return "Invalid value"
}

// sizeMessage words min and max by what is being measured
func sizeMessage(kind reflect.Kind, bound, param string) string {
	switch kind {
	case reflect.String:
		return "Must be at " + bound + " " + param + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "Must contain at " + bound + " " + param + " items"
	}
	return "Must be at " + bound + " " + param
}
