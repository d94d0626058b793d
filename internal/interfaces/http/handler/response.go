package handler

import "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// MessageData is returned by actions that have nothing else to report
// @Description Confirmation message
type MessageData struct {
	Message string `json:"message"`
}

// JobData describes an automation run queued on the scheduler
// @Description Queued automation job
type JobData struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Periodo string `json:"periodo,omitempty"`
	Status  string `json:"status"`
}
