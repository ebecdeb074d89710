package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// APIResponse is the envelope every JSON endpoint returns. Data is null when
// Error is set and vice versa.
type APIResponse struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
	Code  string  `json:"code,omitempty"`
}

// AppError is a custom application error carrying a machine-readable code.
type AppError struct {
	Code    string
	Message string
	Err     error
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
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewMethodNotAllowedError(message string) *AppError {
	return &AppError{
		Code:    "METHOD_NOT_ALLOWED",
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
	}
}

func NewUploadError(err error) *AppError {
	return &AppError{
		Code:    "UPLOAD_FAILED",
		Message: "Failed to upload image",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// Respond writes a successful envelope with the given status.
func Respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(APIResponse{Data: data})
}

// RespondWithError writes a standardized error envelope.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	msg := err.Error()
	resp := APIResponse{Error: &msg}
	if appErr, ok := err.(*AppError); ok {
		resp.Code = appErr.Code
		msg = appErr.Message
		resp.Error = &msg
	}
	return c.Status(status).JSON(resp)
}
