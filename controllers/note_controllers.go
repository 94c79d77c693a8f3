package controllers

import (
	"notes-server/middlewares"
	"notes-server/models"
	service "notes-server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type NoteController struct {
	notes  *service.NoteService
	logger zerolog.Logger
}

func NewNoteController(notes *service.NoteService, logger zerolog.Logger) *NoteController {
	return &NoteController{notes: notes, logger: logger}
}

func (nc *NoteController) GetNotes(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	notes, err := nc.notes.ListNotes(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, nc.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(notes)
}

func (nc *NoteController) CreateNote(c *fiber.Ctx) error {
	var req models.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	note, err := nc.notes.CreateNote(c.UserContext(), middleware.Claims(c).UserID, req)
	if err != nil {
		return respondError(c, nc.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (nc *NoteController) UpdateNote(c *fiber.Ctx) error {
	var req models.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	note, err := nc.notes.UpdateNote(c.UserContext(), middleware.Claims(c).UserID, c.Params("id"), req)
	if err != nil {
		return respondError(c, nc.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(note)
}

func (nc *NoteController) DeleteNoteByID(c *fiber.Ctx) error {
	if err := nc.notes.DeleteNote(c.UserContext(), middleware.Claims(c).UserID, c.Params("id")); err != nil {
		return respondError(c, nc.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Deleted"})
}

func (nc *NoteController) GenerateShareToken(c *fiber.Ctx) error {
	token, err := nc.notes.GenerateShareToken(c.UserContext(), middleware.Claims(c).UserID, c.Params("id"))
	if err != nil {
		return respondError(c, nc.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"share_token": token})
}

func (nc *NoteController) JoinByToken(c *fiber.Ctx) error {
	var req models.JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	noteID, err := nc.notes.JoinByToken(c.UserContext(), middleware.Claims(c).UserID, req.Token)
	if err != nil {
		return respondError(c, nc.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Joined note successfully",
		"note_id": noteID,
	})
}
