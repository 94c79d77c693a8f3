package middleware

import (
	"errors"
	"strings"

	service "notes-server/services"
	"notes-server/utils"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// JWTParser authenticates the bearer token and stores its claims under "user".
// allowQuery also accepts ?token= for clients that cannot set headers (websockets).
func JWTParser(auth *service.AuthService, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, errMessage := bearerToken(c, allowQuery)
		if errMessage != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": errMessage,
			})
		}

		claims, err := auth.Authenticate(c.UserContext(), tokenString)
		if errors.Is(err, service.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		c.Locals(userLocal, claims)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx, allowQuery bool) (string, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if allowQuery && c.Query("token") != "" {
			return c.Query("token"), ""
		}
		return "", "Missing Authorization header"
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
		return "", "Malformed Authorization header"
	}
	return strings.TrimSpace(tokenString), ""
}

// Claims returns the claims stored by JWTParser.
func Claims(c *fiber.Ctx) *utils.CustomClaims {
	claims, _ := c.Locals(userLocal).(*utils.CustomClaims)
	return claims
}
