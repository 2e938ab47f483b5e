package memory

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex en memoria, solo inserción.
type StockMovementRepo struct {
	store *Store
}

// NewStockMovementRepository construye el repositorio sobre el Store.
func NewStockMovementRepository(store *Store) *StockMovementRepo {
	return &StockMovementRepo{store: store}
}

// Create agrega el movimiento con marca de tiempo asignada por el almacén.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	m.CreatedAt = r.store.timestamp()
	r.store.movements = append(r.store.movements, *m)
	return nil
}

// List recorre el kardex del final al inicio (más reciente primero) aplicando el filtro.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]*entity.StockMovement, 0, len(r.store.movements))
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if !f.Match(&m) {
			continue
		}
		out = append(out, &m)
	}
	return out, nil
}
