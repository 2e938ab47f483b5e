package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate lee el producto bloqueando su fila hasta el fin de la transacción.
	// Fuera de una transacción equivale a GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica solo campos de catálogo; nunca Quantity ni Cost.
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
	// ApplyMovement suma delta a la existencia de forma atómica y conmutativa y, si newCost no es nil,
	// reemplaza el costo en la misma operación. Devuelve domain.ErrNotFound si el producto no existe.
	ApplyMovement(ctx context.Context, id string, delta int64, newCost *decimal.Decimal) error
}
