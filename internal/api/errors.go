package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"docqa/internal/domain"
	"docqa/internal/logger"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the Error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrMissingFile() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "multipart field 'file' is required",
	}
}

func ErrNotFound[T any](arg T, resource string) Error {
	return Error{
		Code:    fiber.StatusNotFound,
		Message: fmt.Sprintf("%s with %v not found", resource, arg),
	}
}

// NewErrorHandler maps handler and service errors to JSON responses.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			apiErr   Error
			valErr   ValidationError
			fiberErr *fiber.Error
		)
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &valErr):
			return c.Status(valErr.Status).JSON(valErr)
		case errors.Is(err, domain.ErrExtractionEmpty):
			apiErr = NewError(fiber.StatusUnprocessableEntity, domain.ErrExtractionEmpty.Error())
		case errors.Is(err, domain.ErrEmptyQuestion):
			apiErr = NewError(fiber.StatusUnprocessableEntity, domain.ErrEmptyQuestion.Error())
		case errors.Is(err, domain.ErrDocumentNotFound):
			apiErr = ErrNotFound(c.Params("id"), "document")
		case domain.IsCollaboratorUnavailable(err):
			apiErr = NewError(fiber.StatusBadGateway, err.Error())
		case errors.As(err, &fiberErr):
			apiErr = NewError(fiberErr.Code, fiberErr.Message)
		default:
			apiErr = NewError(fiber.StatusInternalServerError, "internal server error")
		}

		if apiErr.Code >= fiber.StatusInternalServerError {
			log.Error(module, "request failed", map[string]interface{}{
				"path":   c.Path(),
				"status": apiErr.Code,
				"error":  err,
			})
		}
		return c.Status(apiErr.Code).JSON(apiErr)
	}
}
