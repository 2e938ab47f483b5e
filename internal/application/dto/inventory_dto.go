package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Salidas: sale_type y price_at_sale. Entradas: unit_cost (opcional; sin costo no se recalcula el promedio).
type RegisterMovementRequest struct {
	ProductID   string           `json:"product_id"`
	Type        string           `json:"type"` // in, out
	Units       int64            `json:"units"`
	SaleType    string           `json:"sale_type,omitempty"`
	PriceAtSale *decimal.Decimal `json:"price_at_sale,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// MovementResponse movimiento del kardex.
type MovementResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name"`
	Type        string           `json:"type"`
	Units       int64            `json:"units"`
	SaleType    *string          `json:"sale_type,omitempty"`
	PriceAtSale *decimal.Decimal `json:"price_at_sale,omitempty"`
	CostAtEntry *decimal.Decimal `json:"cost_at_entry,omitempty"`
	Total       decimal.Decimal  `json:"total"`
	Note        string           `json:"note,omitempty"`
	InvoiceID   *string          `json:"invoice_id,omitempty"`
	UserEmail   *string          `json:"user_email,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
