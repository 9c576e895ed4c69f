package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warung-pos/internal/application/auth"
	"github.com/jhoicas/warung-pos/internal/application/checkout"
	"github.com/jhoicas/warung-pos/internal/application/dto"
	"github.com/jhoicas/warung-pos/internal/domain/entity"
)

// AuthHandler abre y cierra la sesión de la terminal.
type AuthHandler struct {
	sessions *auth.SessionManager
	engine   *checkout.Engine
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sessions *auth.SessionManager, engine *checkout.Engine) *AuthHandler {
	return &AuthHandler{sessions: sessions, engine: engine}
}

// Login godoc
// @Summary      Iniciar sesión en la terminal
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.AccountResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(in.Username) == "" || in.Secret == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}
	acc, err := h.sessions.Login(c.UserContext(), in.Username, in.Secret)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAccountResponse(acc))
}

// Logout godoc
// @Summary      Cerrar sesión y descartar el carrito
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.engine.Reset()
	if err := h.sessions.Logout(); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Cuenta con sesión abierta
// @Tags         auth
// @Produce      json
// @Success      200   {object}  dto.AccountResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	acc, _ := GetAccount(c)
	return c.JSON(toAccountResponse(acc))
}

func toAccountResponse(a entity.Account) dto.AccountResponse {
	return dto.AccountResponse{ID: a.ID, Username: a.Username, Name: a.Name, Role: string(a.Role)}
}
