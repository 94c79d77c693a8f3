package routes

import (
	"notes-server/controllers"

	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, authController *controllers.AuthController, auth fiber.Handler) {
	app.Post("/register", authController.Register)
	app.Post("/login", authController.Login)
	app.Post("/logout", auth, authController.Logout)
}
