package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrConversationRepoRequired means NewServer got a nil repository.
	ErrConversationRepoRequired = errors.New("api: conversation repository is required")
	// ErrChatServiceRequired means NewServer got a nil chat service.
	ErrChatServiceRequired = errors.New("api: chat service is required")
)

// Error is the JSON error body returned by the API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an API error with an explicit status code.
func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

// ErrBadRequest reports an unparseable request body.
func ErrBadRequest() Error {
	return Error{Code: fiber.StatusBadRequest, Message: "invalid JSON request"}
}

// ErrInvalidID reports a malformed resource identifier.
func ErrInvalidID() Error {
	return Error{Code: fiber.StatusBadRequest, Message: "invalid id given"}
}

// ErrResourceNotFound reports a missing resource.
func ErrResourceNotFound(resource string) Error {
	return Error{Code: fiber.StatusNotFound, Message: resource + " not found"}
}

// ValidationError is the JSON body for failed request validation.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError wraps field errors in a 422 response.
func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

// ErrorHandler renders any handler error as a JSON body with the right
// status. Unclassified errors become 500s with a generic message so
// internals never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	slog.Default().Error("request failed",
		"path", c.Path(), "method", c.Method(), "err", err)
	return c.Status(fiber.StatusInternalServerError).
		JSON(NewError(fiber.StatusInternalServerError, "internal server error"))
}
