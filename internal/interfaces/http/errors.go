package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/domain"
)

// errorMapping traduce un error de dominio a estado HTTP y código.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrBadCredential, fiber.StatusUnauthorized, "BAD_CREDENTIAL"},
	{domain.ErrNoSession, fiber.StatusUnauthorized, "NO_SESSION"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrIntegrityConflict, fiber.StatusConflict, "INTEGRITY_CONFLICT"},
	{domain.ErrProtectedAccount, fiber.StatusConflict, "PROTECTED_ACCOUNT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConnectivity, fiber.StatusServiceUnavailable, "CONNECTIVITY"},
}

// respondError escribe el ErrorResponse correspondiente a err.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
