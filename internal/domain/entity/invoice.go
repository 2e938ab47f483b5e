package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem línea de factura. Price es el precio unitario efectivo del canal elegido.
type InvoiceItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SaleType    string          `json:"sale_type"`
	Price       decimal.Decimal `json:"price"`
	Units       int64           `json:"units"`
}

// LineTotal devuelve price × units.
func (i InvoiceItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Units))
}

// Invoice cabecera de factura con sus líneas embebidas.
// Number es nil en facturas creadas antes de existir el consecutivo.
type Invoice struct {
	ID               string
	Number           *int64
	CustomerName     string
	CustomerDocument string
	CustomerEmail    string
	Items            []InvoiceItem
	Subtotal         decimal.Decimal
	Total            decimal.Decimal
	Notes            string
	UserID           string
	UserEmail        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UnitsByProduct suma las unidades de las líneas agrupadas por producto.
func (inv *Invoice) UnitsByProduct() map[string]int64 {
	out := make(map[string]int64, len(inv.Items))
	for _, it := range inv.Items {
		out[it.ProductID] += it.Units
	}
	return out
}
