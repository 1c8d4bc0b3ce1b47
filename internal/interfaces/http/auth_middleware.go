package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
)

// Locals keys para UserID, PersonID y Role en Fiber.
const (
	LocalUserID   = "user_id"
	LocalPersonID = "person_id"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID, PersonID y Role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return respondError(c, fmt.Errorf("header Authorization: %w", errMissingToken))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, fmt.Errorf("formato Bearer <token>: %w", errInvalidToken))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondError(c, errMissingToken)
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return respondError(c, errInvalidToken)
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalPersonID, claims.PersonID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetPersonID devuelve la persona del registro asociada al token (0 si no hay).
func GetPersonID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalPersonID).(int64)
	return id
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
