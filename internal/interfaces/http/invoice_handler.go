package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-facturacion/internal/application/billing"
	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc   *billing.InvoiceUseCase
	send *billing.SendInvoiceUseCase
	pdf  *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler. send y pdf son opcionales.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, send *billing.SendInvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, send: send, pdf: pdf}
}

// Create godoc
// @Summary      Crear factura
// @Description  Asigna el siguiente consecutivo y registra una salida de inventario por línea.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "Cliente y líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	inv, err := h.uc.Create(c.UserContext(), actor(c), toDraft(in))
	if err != nil {
		return respondError(c, err, "producto no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(inv))
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit/offset inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "")
	}
	from, to := page.Window(len(list))
	items := make([]dto.InvoiceResponse, 0, to-from)
	for _, inv := range list[from:to] {
		items = append(items, toInvoiceResponse(inv))
	}
	return c.JSON(dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(list)},
	})
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	inv, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "factura no encontrada")
	}
	return c.JSON(toInvoiceResponse(inv))
}

// Update godoc
// @Summary      Editar factura
// @Description  Reemplaza cliente y líneas; el inventario se ajusta por la diferencia de unidades por producto.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la factura"
// @Param        body  body  dto.InvoiceRequest  true  "Cliente y líneas"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	inv, err := h.uc.Update(c.UserContext(), actor(c), id, toDraft(in))
	if err != nil {
		return respondError(c, err, "factura o producto no encontrado")
	}
	return c.JSON(toInvoiceResponse(inv))
}

// Delete godoc
// @Summary      Eliminar factura
// @Description  Devuelve al inventario las unidades de todas las líneas vigentes.
// @Tags         invoices
// @Security     Bearer
// @Param        id   path  string  true  "ID de la factura"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err, "factura no encontrada")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Print godoc
// @Summary      Documento imprimible de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      html
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/print [get]
func (h *InvoiceHandler) Print(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if h.send == nil {
		return notConfigured(c, "documentos")
	}
	html, err := h.send.RenderByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "factura no encontrada")
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

// DownloadPDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if h.pdf == nil {
		return notConfigured(c, "PDF")
	}
	data, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "factura no encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(data)
}

// Send godoc
// @Summary      Enviar factura por correo
// @Description  to vacío usa el correo del cliente. No modifica la factura ni el inventario.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID de la factura"
// @Param        body  body  dto.SendInvoiceRequest  false  "Destinatario"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if h.send == nil {
		return notConfigured(c, "correo")
	}
	var in dto.SendInvoiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	to, err := h.send.Send(c.UserContext(), id, in.To)
	if err != nil {
		return respondError(c, err, "factura no encontrada")
	}
	return c.JSON(fiber.Map{"message": "factura enviada", "to": to})
}

func notConfigured(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "servicio de " + what + " no configurado"})
}

func toDraft(in dto.InvoiceRequest) billing.InvoiceDraft {
	items := make([]entity.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.InvoiceItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SaleType:    it.SaleType,
			Price:       it.Price,
			Units:       it.Units,
		})
	}
	return billing.InvoiceDraft{
		CustomerName:     in.CustomerName,
		CustomerDocument: in.CustomerDocument,
		CustomerEmail:    in.CustomerEmail,
		Notes:            in.Notes,
		Items:            items,
	}
}

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SaleType:    it.SaleType,
			Price:       it.Price,
			Units:       it.Units,
			Total:       it.LineTotal(),
		})
	}
	return dto.InvoiceResponse{
		ID:               inv.ID,
		Number:           inv.Number,
		CustomerName:     inv.CustomerName,
		CustomerDocument: inv.CustomerDocument,
		CustomerEmail:    inv.CustomerEmail,
		Items:            items,
		Subtotal:         inv.Subtotal,
		Total:            inv.Total,
		Notes:            inv.Notes,
		UserEmail:        inv.UserEmail,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
}
