package handler

import "github.com/keystone/backend/internal/interfaces/http/dto"

// The types below only describe the envelope to swag; handlers write
// dto.Response directly.

// APIResponse is the success envelope with a typed data payload.
// List endpoints also fill meta.
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope. error.code is a stable machine
// code such as PROPERTY_NOT_FOUND or ERR_VALIDATION.
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
