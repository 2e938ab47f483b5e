package memory

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa la función bajo el candado de escritura del Store.
// Si fn falla, los cambios hechos antes del error no se deshacen; los casos de uso
// validan y leen antes de escribir, y ApplyMovement/Create son las últimas operaciones.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios atados al mismo Store.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if inTx(ctx) {
		return fn(ctx, NewProductRepository(r.store), NewStockMovementRepository(r.store))
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(withTx(ctx), NewProductRepository(r.store), NewStockMovementRepository(r.store))
}
