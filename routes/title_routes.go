package routes

import (
	"notes-server/controllers"

	"github.com/gofiber/fiber/v2"
)

func TitleRoutes(app *fiber.App, titleController *controllers.TitleController, auth fiber.Handler) {
	app.Get("/title", auth, titleController.GetTitle)
	app.Put("/title", auth, titleController.UpdateTitle)
}
