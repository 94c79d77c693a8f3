package controllers

import (
	"errors"

	service "notes-server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// respondError maps service errors to HTTP statuses and the {"error": ...} body.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var inputErr *service.InputError
	var forbiddenErr *service.ForbiddenError
	switch {
	case errors.As(err, &inputErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": inputErr.Message})
	case errors.As(err, &forbiddenErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": forbiddenErr.Message})
	case errors.Is(err, service.ErrNoteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
	case errors.Is(err, service.ErrInvalidShareToken):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found for that token"})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username/password"})
	case errors.Is(err, service.ErrUsernameTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
	}

	logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
