package middleware

import (
	"context"
	"time"

	"notes-server/models"
	"notes-server/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger writes an access log line for every request and, when repo is set,
// persists the exchange. Persistence is best effort and never fails the request.
func RequestLogger(logger zerolog.Logger, repo repository.RequestLogRepositoryInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		headers := make(map[string]string)
		c.Request().Header.VisitAll(func(key, value []byte) {
			headers[string(key)] = string(value)
		})
		if _, ok := headers[fiber.HeaderAuthorization]; ok {
			headers[fiber.HeaderAuthorization] = "[redacted]"
		}
		payload := append([]byte(nil), c.Body()...)

		err := c.Next()
		if err != nil {
			// let the app error handler pick the status before it is read below
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		logger.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")

		if repo != nil {
			entry := models.RequestLog{
				Datetime:       start,
				Method:         c.Method(),
				Endpoint:       c.Path(),
				RequestHeaders: headers,
				Payload:        payload,
				ResponseBody:   append([]byte(nil), c.Response().Body()...),
				StatusCode:     status,
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if saveErr := repo.SaveRequestLog(ctx, entry); saveErr != nil {
				logger.Warn().Err(saveErr).Msg("request log not saved")
			}
			cancel()
		}
		return nil
	}
}
