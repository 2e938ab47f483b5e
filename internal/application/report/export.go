package report

import (
	"time"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/pkg/money"
)

// SaleRow fila plana para exportar (CSV e impresión).
type SaleRow struct {
	Date     string
	Product  string
	SaleType string
	Units    string
	Price    string
	Total    string
	Seller   string
}

// ExportHeader encabezados de la exportación.
var ExportHeader = []string{"Fecha", "Producto", "Venta", "Unidades", "Precio", "Total", "Vendedor"}

// Strings devuelve la fila en el orden de ExportHeader.
func (r SaleRow) Strings() []string {
	return []string{r.Date, r.Product, r.SaleType, r.Units, r.Price, r.Total, r.Seller}
}

// ExportRows proyecta las ventas con fecha local, canal legible ("Detal"/"Mayor") y montos enteros.
func ExportRows(rep *SalesReport, loc *time.Location) []SaleRow {
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]SaleRow, 0, len(rep.Sales))
	for _, s := range rep.Sales {
		rows = append(rows, SaleRow{
			Date:     s.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			Product:  s.ProductName,
			SaleType: channelLabel(s.SaleType),
			Units:    money.FormatUnits(s.Units),
			Price:    s.Price.Round(0).StringFixed(0),
			Total:    s.Total.Round(0).StringFixed(0),
			Seller:   s.Seller,
		})
	}
	return rows
}

func channelLabel(saleType string) string {
	if saleType == entity.SaleTypeMayor {
		return "Mayor"
	}
	return "Detal"
}

// ToResponse convierte el reporte al DTO JSON.
func ToResponse(rep *SalesReport) dto.SalesReportResponse {
	rows := make([]dto.SaleRowResponse, 0, len(rep.Sales))
	for _, s := range rep.Sales {
		rows = append(rows, dto.SaleRowResponse{
			CreatedAt:   s.CreatedAt,
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			SaleType:    s.SaleType,
			Units:       s.Units,
			Price:       s.Price,
			Total:       s.Total,
			Seller:      s.Seller,
		})
	}
	return dto.SalesReportResponse{
		Rows: rows,
		Totals: dto.SalesTotalsResponse{
			Count: rep.Totals.Count,
			Units: rep.Totals.Units,
			Total: rep.Totals.Total,
			Detal: rep.Totals.Detal,
			Mayor: rep.Totals.Mayor,
		},
		Sellers: rep.Sellers,
	}
}
