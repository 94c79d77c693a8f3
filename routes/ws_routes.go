package routes

import (
	"notes-server/controllers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func WebSocketRoutes(app *fiber.App, wsController *controllers.WebSocketController, auth fiber.Handler) {
	app.Get("/ws", auth, wsController.Upgrade, websocket.New(wsController.HandleChanges))
}
