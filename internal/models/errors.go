package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeDuplicate    = "DUPLICATE"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON envelope written for every failed request.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	// Fields holds per-field validation messages, keyed by JSON field name.
	Fields map[string]string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldValidationError reports one or more invalid input fields.
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Invalid input",
		Fields:  fields,
	}
}

func NewDuplicateError(message string) *AppError {
	return &AppError{
		Code:    CodeDuplicate,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// RespondWithError writes the standard failure envelope.
// Internal causes are never serialized.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{Success: false}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response.Message = appErr.Message
		response.Code = appErr.Code
		response.Errors = appErr.Fields
	} else {
		response.Message = err.Error()
	}

	return c.Status(status).JSON(response)
}
