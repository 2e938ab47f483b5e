package repository

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas (DIP).
// GetByID devuelve (nil, nil) cuando la factura no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// Update sobrescribe cliente, líneas, totales y notas. Devuelve domain.ErrNotFound si no existe.
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	// List devuelve las facturas de la más reciente a la más antigua.
	List(ctx context.Context) ([]*entity.Invoice, error)
}

// CounterRepository contador persistente y linealizable.
type CounterRepository interface {
	// Increment suma 1 al contador name (creándolo en 0 si no existe) y devuelve el nuevo valor.
	// Devuelve domain.ErrConflict cuando la transacción compitió con otra y debe reintentarse.
	Increment(ctx context.Context, name string) (int64, error)
}
