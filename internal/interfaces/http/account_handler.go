package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warung-pos/internal/application/directory"
	"github.com/jhoicas/warung-pos/internal/application/dto"
)

// AccountHandler administración de cuentas del personal (solo OWNER).
type AccountHandler struct {
	directory *directory.Directory
}

// NewAccountHandler construye el handler.
func NewAccountHandler(d *directory.Directory) *AccountHandler {
	return &AccountHandler{directory: d}
}

// List godoc
// @Summary      Listar cuentas
// @Tags         accounts
// @Produce      json
// @Success      200   {array}  dto.AccountResponse
// @Router       /api/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	accounts := h.directory.Accounts()
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar cuenta
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "username, name, role, password"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	acc, err := h.directory.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAccountResponse(acc))
}

// Update godoc
// @Summary      Editar cuenta (password vacío conserva el actual)
// @Tags         accounts
// @Accept       json
// @Param        username  path  string  true  "username"
// @Param        body  body  dto.UpdateAccountRequest  true  "name, role, password"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts/{username} [put]
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.directory.Update(c.UserContext(), c.Params("username"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar cuenta (admin está protegida)
// @Tags         accounts
// @Param        username  path  string  true  "username"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts/{username} [delete]
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	if err := h.directory.Remove(c.UserContext(), c.Params("username")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
