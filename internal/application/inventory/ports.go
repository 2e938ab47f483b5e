package inventory

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que la actualización del producto y el registro del movimiento se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
