package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/application/report"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
)

// ReportHandler expone el reporte de ventas en JSON, CSV e impresión (solo admin).
type ReportHandler struct {
	uc  *report.SalesReportUseCase
	now func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.SalesReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc, now: time.Now}
}

// Sales godoc
// @Summary      Reporte de ventas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        sale_type   query  string  false  "all | detal | mayor"
// @Param        seller      query  string  false  "Email del vendedor"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD (inclusivo)"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	rep, _, err := h.query(c)
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(report.ToResponse(rep))
}

// SalesCSV godoc
// @Summary      Exportar reporte de ventas (CSV)
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Param        product_id  query  string  false  "Producto"
// @Param        sale_type   query  string  false  "all | detal | mayor"
// @Param        seller      query  string  false  "Email del vendedor"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD (inclusivo)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales.csv [get]
func (h *ReportHandler) SalesCSV(c *fiber.Ctx) error {
	rep, _, err := h.query(c)
	if err != nil {
		return respondError(c, err, "")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(report.ExportHeader); err != nil {
		return respondError(c, err, "")
	}
	for _, row := range report.ExportRows(rep, h.uc.Location()) {
		if err := w.Write(row.Strings()); err != nil {
			return respondError(c, err, "")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return respondError(c, err, "")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment("reporte_ventas.csv")
	return c.Send(buf.Bytes())
}

// SalesPrint godoc
// @Summary      Reporte de ventas imprimible
// @Tags         reports
// @Security     Bearer
// @Produce      html
// @Param        product_id  query  string  false  "Producto"
// @Param        sale_type   query  string  false  "all | detal | mayor"
// @Param        seller      query  string  false  "Email del vendedor"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD (inclusivo)"
// @Success      200  {string}  string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales/print [get]
func (h *ReportHandler) SalesPrint(c *fiber.Ctx) error {
	rep, f, err := h.query(c)
	if err != nil {
		return respondError(c, err, "")
	}
	html, err := report.RenderPrint(rep, f, h.uc.Location(), h.now())
	if err != nil {
		return respondError(c, err, "")
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *ReportHandler) query(c *fiber.Ctx) (*report.SalesReport, report.SalesFilter, error) {
	var q dto.SalesReportQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, report.SalesFilter{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	f, err := report.ParseSalesQuery(q, h.uc.Location())
	if err != nil {
		return nil, f, err
	}
	rep, err := h.uc.Query(c.UserContext(), f)
	return rep, f, err
}
