package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su existencia y costo promedio ponderado.
// Quantity solo cambia vía movimientos de inventario y puede quedar negativa (sobreventa).
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       decimal.Decimal // precio de venta unitario
	Cost        decimal.Decimal // costo promedio ponderado, solo se recalcula en entradas
	Quantity    int64
	Supplier    string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si la existencia está en o por debajo del umbral.
func (p *Product) IsLowStock(threshold int64) bool {
	return p.Quantity <= threshold
}
