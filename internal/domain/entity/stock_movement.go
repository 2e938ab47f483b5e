package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// Canales de venta.
const (
	SaleTypeDetal = "detal"
	SaleTypeMayor = "mayor"
)

// ValidMovementType indica si t es un tipo de movimiento soportado.
func ValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// ValidSaleType indica si s es un canal de venta soportado.
func ValidSaleType(s string) bool {
	return s == SaleTypeDetal || s == SaleTypeMayor
}

// StockMovement es un registro inmutable del kardex. Las correcciones se hacen con movimientos compensatorios.
// Los campos de salida (SaleType, PriceAtSale) y de entrada (CostAtEntry) son excluyentes.
type StockMovement struct {
	ID          string
	ProductID   string
	Type        string // in, out
	Units       int64
	SaleType    *string
	PriceAtSale *decimal.Decimal
	CostAtEntry *decimal.Decimal
	Total       decimal.Decimal // units × precio (out) o units × costo (in)
	Note        string
	InvoiceID   *string
	UserID      *string
	UserEmail   *string
	CreatedAt   time.Time
}

// Delta devuelve el cambio firmado que el movimiento aplica a la existencia.
func (m *StockMovement) Delta() int64 {
	if m.Type == MovementTypeOut {
		return -m.Units
	}
	return m.Units
}
