package controllers

import (
	"notes-server/middlewares"
	"notes-server/models"
	service "notes-server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type TitleController struct {
	titles *service.TitleService
	logger zerolog.Logger
}

func NewTitleController(titles *service.TitleService, logger zerolog.Logger) *TitleController {
	return &TitleController{titles: titles, logger: logger}
}

func (tc *TitleController) GetTitle(c *fiber.Ctx) error {
	title, err := tc.titles.GetTitle(c.UserContext(), middleware.Claims(c).UserID)
	if err != nil {
		return respondError(c, tc.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.Title{Title: title})
}

func (tc *TitleController) UpdateTitle(c *fiber.Ctx) error {
	var req models.Title
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	title, err := tc.titles.SetTitle(c.UserContext(), middleware.Claims(c).UserID, req.Title)
	if err != nil {
		return respondError(c, tc.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.Title{Title: title})
}
