package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/application/report"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP del kardex (protegido).
type InventoryHandler struct {
	uc  *inventory.RegisterMovementUseCase
	loc *time.Location
}

// NewInventoryHandler construye el handler. loc define los límites de día de los filtros from/to.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, loc *time.Location) *InventoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InventoryHandler{uc: uc, loc: loc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type (in|out), units, sale_type y price_at_sale (salidas), unit_cost (entradas)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.uc.RecordFromRequest(c.UserContext(), GetUserID(c), GetEmail(c), in)
	if err != nil {
		return respondError(c, err, "producto no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "movimiento registrado"})
}

// ListMovements godoc
// @Summary      Listar movimientos del kardex
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "in | out"
// @Param        product_id  query  string  false  "Filtra por producto"
// @Param        sale_type   query  string  false  "detal | mayor"
// @Param        user        query  string  false  "Email del usuario"
// @Param        invoice_id  query  string  false  "Movimientos de una factura"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        limit       query  int     false  "Límite (default 50)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		Type:      strings.ToLower(strings.TrimSpace(c.Query("type"))),
		ProductID: strings.TrimSpace(c.Query("product_id")),
		SaleType:  strings.ToLower(strings.TrimSpace(c.Query("sale_type"))),
		UserEmail: strings.TrimSpace(c.Query("user")),
		InvoiceID: strings.TrimSpace(c.Query("invoice_id")),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.ParseInLocation(report.DateLayout, from, h.loc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe tener formato YYYY-MM-DD"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.ParseInLocation(report.DateLayout, to, h.loc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe tener formato YYYY-MM-DD"})
		}
		end := t.AddDate(0, 0, 1)
		filter.To = &end
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit/offset inválidos"})
	}
	page.DefaultPage()

	views, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "")
	}
	from, to := page.Window(len(views))
	items := make([]dto.MovementResponse, 0, to-from)
	for _, v := range views[from:to] {
		items = append(items, toMovementResponse(v))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(views)},
	})
}

func toMovementResponse(v inventory.MovementView) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          v.ID,
		ProductID:   v.ProductID,
		ProductName: v.ProductName,
		Type:        v.Type,
		Units:       v.Units,
		SaleType:    v.SaleType,
		PriceAtSale: v.PriceAtSale,
		CostAtEntry: v.CostAtEntry,
		Total:       v.Total,
		Note:        v.Note,
		InvoiceID:   v.InvoiceID,
		UserEmail:   v.UserEmail,
		CreatedAt:   v.CreatedAt,
	}
}
