package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// Roles reconocidos en el token.
const (
	RoleAdmin       = "admin"
	RoleBodeguero   = "bodeguero"
	RoleSolicitante = "solicitante"
)

// RequireRole devuelve un middleware Fiber que deja pasar solo a los roles indicados.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalRole).
//
// Comportamiento:
//   - 403 MISSING_ROLE → el token no trae rol.
//   - 403 FORBIDDEN    → el rol no está entre los permitidos.
func RequireRole(allowed ...string) fiber.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[strings.ToLower(r)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := strings.ToLower(GetRole(c))
		if role == "" {
			return respondError(c, errMissingRole)
		}
		if _, ok := set[role]; !ok {
			return respondError(c, fmt.Errorf("rol '%s' sin acceso a este recurso: %w", role, domain.ErrForbidden))
		}
		return c.Next()
	}
}
