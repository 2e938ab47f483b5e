package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// MovementFilter criterios opcionales para listar movimientos. Campos vacíos o nil no filtran.
// From es inclusivo y To exclusivo.
type MovementFilter struct {
	Type      string
	ProductID string
	SaleType  string
	UserEmail string
	InvoiceID string
	From      *time.Time
	To        *time.Time
}

// IsEmpty indica si el filtro no restringe nada.
func (f MovementFilter) IsEmpty() bool {
	return f.Type == "" && f.ProductID == "" && f.SaleType == "" && f.UserEmail == "" &&
		f.InvoiceID == "" && f.From == nil && f.To == nil
}

// Match evalúa el filtro sobre un movimiento en memoria.
func (f MovementFilter) Match(m *entity.StockMovement) bool {
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.SaleType != "" && (m.SaleType == nil || *m.SaleType != f.SaleType) {
		return false
	}
	if f.UserEmail != "" && (m.UserEmail == nil || *m.UserEmail != f.UserEmail) {
		return false
	}
	if f.InvoiceID != "" && (m.InvoiceID == nil || *m.InvoiceID != f.InvoiceID) {
		return false
	}
	if f.From != nil && m.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !m.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

// StockMovementRepository define el puerto de persistencia del kardex (solo inserción y lectura).
type StockMovementRepository interface {
	// Create inserta el movimiento; el almacén asigna CreatedAt.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve los movimientos que cumplen el filtro, del más reciente al más antiguo.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
