package routes

import (
	"notes-server/controllers"

	"github.com/gofiber/fiber/v2"
)

func NoteRoutes(app *fiber.App, noteController *controllers.NoteController, auth fiber.Handler) {
	app.Get("/notes", auth, noteController.GetNotes)
	app.Post("/notes", auth, noteController.CreateNote)
	app.Post("/notes/join", auth, noteController.JoinByToken)
	app.Put("/notes/:id", auth, noteController.UpdateNote)
	app.Delete("/notes/:id", auth, noteController.DeleteNoteByID)
	app.Post("/notes/:id/generate_share_token", auth, noteController.GenerateShareToken)
	app.Post("/notes/:id/share", auth, noteController.GenerateShareToken)
}
