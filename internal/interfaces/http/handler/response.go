package handler

import "github.com/rwbiz/backend/internal/interfaces/http/dto"

// The types below only describe the response envelope to swag. Handlers
// write dto.Response directly.

// APIResponse is the envelope with a typed data payload. Listings fill meta.
// @Description Envelope carrying data of the documented type
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Message string         `json:"message,omitempty"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is returned by every failing request
// @Description Envelope carrying an error code and the request id
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Message string         `json:"message,omitempty" example:"Validation failed"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse acknowledges a request that returns no data
// @Description Envelope without data
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Logged out"`
}
