package controllers

import (
	"notes-server/middlewares"
	service "notes-server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

type WebSocketController struct {
	hub    *service.NotesHub
	logger zerolog.Logger
}

func NewWebSocketController(hub *service.NotesHub, logger zerolog.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, logger: logger}
}

// Upgrade rejects plain HTTP requests and hands the user ID to the websocket handler.
func (wsc *WebSocketController) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "Websocket upgrade required"})
	}
	c.Locals("user_id", middleware.Claims(c).UserID)
	return c.Next()
}

// HandleChanges keeps the connection subscribed until the client goes away.
// Incoming messages are read only to notice the close.
func (wsc *WebSocketController) HandleChanges(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	wsc.hub.Subscribe(userID, c)
	defer wsc.hub.RemoveClient(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			wsc.logger.Debug().Err(err).Str("user_id", userID).Msg("websocket closed")
			return
		}
	}
}
