package server

import (
	"errors"
	"log/slog"
	"strings"

	"promptvault/internal/middleware"
	"promptvault/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// mapServiceError maps an AppError code to its HTTP status.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation, models.CodeDuplicate:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// httpStatusCode is the inverse of mapServiceError for framework errors.
func httpStatusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
		return models.CodeValidation
	case fiber.StatusUnauthorized:
		return models.CodeUnauthorized
	case fiber.StatusForbidden:
		return models.CodeForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return models.CodeNotFound
	default:
		return models.CodeInternal
	}
}

// respondServiceError writes err with its mapped status. Failures that are
// not AppErrors are logged and hidden behind a generic message.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	status := mapServiceError(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// parseBody decodes the JSON body into dst. On failure it writes a 400
// and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// parseID extracts a uuid route parameter.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (string, error) {
	raw := strings.TrimSpace(c.Params(param))
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return "", errResponseWritten
	}
	return id.String(), nil
}

// requesterID returns the session user. Routes behind AuthRequired always have one.
func requesterID(c *fiber.Ctx) string {
	id, _ := middleware.UserID(c)
	return id
}

// checkBodyIdentity rejects a body that names a different user than the session.
// Writes 403 and returns errResponseWritten on mismatch.
func checkBodyIdentity(c *fiber.Ctx, bodyID string) error {
	bodyID = strings.TrimSpace(bodyID)
	if bodyID == "" || bodyID == requesterID(c) {
		return nil
	}
	_ = models.RespondWithError(c, fiber.StatusForbidden,
		models.NewForbiddenError("Request user does not match the session"))
	return errResponseWritten
}
