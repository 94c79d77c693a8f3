package controllers

import (
	"notes-server/middlewares"
	"notes-server/models"
	service "notes-server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type AuthController struct {
	auth   *service.AuthService
	logger zerolog.Logger
}

func NewAuthController(auth *service.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{auth: auth, logger: logger}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	user, err := ac.auth.Register(c.UserContext(), creds)
	if err != nil {
		return respondError(c, ac.logger, err)
	}

	ac.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registered"})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	token, err := ac.auth.Login(c.UserContext(), creds)
	if err != nil {
		return respondError(c, ac.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.auth.Logout(c.UserContext(), middleware.Claims(c)); err != nil {
		return respondError(c, ac.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}
