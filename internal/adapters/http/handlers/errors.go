package handlers

import (
	"errors"

	"lendinghub/internal/core/domain"
	"lendinghub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// handleServiceError maps a service failure to its HTTP response.
// Unknown errors are logged and answered with 500 and fallback.
func handleServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotAvailable),
		errors.Is(err, domain.ErrAlreadyReturned),
		errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, err.Error())
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("❌ " + fallback)
		return response.InternalServerError(c, fallback)
	}
}

// parseUUID parses an identifier from the request. A malformed value is
// reported as invalid input for field.
func parseUUID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &domain.InvalidInputError{Field: field, Reason: "must be a valid UUID"}
	}
	return id, nil
}
