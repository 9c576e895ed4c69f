package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
)

// LocalAccount clave en c.Locals de la cuenta con sesión abierta.
const LocalAccount = "account"

// SessionReader sesión actual de la terminal; lo implementa *auth.SessionManager.
type SessionReader interface {
	Current() (entity.Account, bool)
}

// RequireSession exige una sesión abierta en la terminal y deja la cuenta en c.Locals.
func RequireSession(sessions SessionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc, ok := sessions.Current()
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "inicie sesión en la terminal"})
		}
		c.Locals(LocalAccount, acc)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe usarse después de RequireSession.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc, ok := GetAccount(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "inicie sesión en la terminal"})
		}
		for _, r := range roles {
			if acc.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetAccount devuelve la cuenta del contexto (después de RequireSession).
func GetAccount(c *fiber.Ctx) (entity.Account, bool) {
	acc, ok := c.Locals(LocalAccount).(entity.Account)
	return acc, ok
}
