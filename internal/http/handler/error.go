package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"docsearch/internal/http/middleware"
	"docsearch/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validationPayload is the 422 body of a rejected upload. Errors lists every
// problem; Form echoes the submitted fields so a client can re-populate them.
type validationPayload struct {
	errorPayload
	Errors []string           `json:"errors"`
	Form   service.FormValues `json:"form"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

func writeValidation(c *fiber.Ctx, verr *service.ValidationError) error {
	res := validationPayload{
		errorPayload: errorPayload{
			RequestID: requestIDFromCtx(c),
			Error: errorEnvelope{
				Code:    "VALIDATION_FAILED",
				Message: "the upload was rejected",
			},
		},
		Errors: verr.Messages,
		Form:   verr.Form,
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
}

// writeServiceError maps the service sentinels to client errors. Anything
// else is logged and reported with status and code.
func writeServiceError(c *fiber.Ctx, err error, status int, code string) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeValidation(c, verr)
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrOwnerRequired):
		return writeError(c, fiber.StatusUnauthorized, "OWNER_REQUIRED", "a valid "+middleware.OwnerHeader+" header is required")
	case errors.Is(err, service.ErrInvalidScope):
		return writeError(c, fiber.StatusBadRequest, "INVALID_SCOPE", "scope must be one of all, mine, others")
	}

	slog.ErrorContext(c.UserContext(), "request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	if status == fiber.StatusServiceUnavailable {
		return writeError(c, status, code, "storage temporarily unavailable")
	}
	return writeError(c, status, code, "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
