package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/application/settings"
)

// SettingsHandler expone la identidad de la tienda usada en facturas.
type SettingsHandler struct {
	uc *settings.UseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *settings.UseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Configuración de la tienda
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StoreSettingsResponse
// @Router       /api/settings/store [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	s, err := h.uc.Get(c.UserContext())
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(settings.ToResponse(s))
}

// Update godoc
// @Summary      Actualizar configuración de la tienda (admin)
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StoreSettingsRequest  true  "name, nit, address, phone, logo"
// @Success      200   {object}  dto.StoreSettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/store [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.StoreSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	s, err := h.uc.Update(c.UserContext(), in)
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(settings.ToResponse(s))
}
