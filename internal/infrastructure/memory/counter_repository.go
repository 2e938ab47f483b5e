package memory

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo contadores en memoria; el candado del Store los hace linealizables.
type CounterRepo struct {
	store *Store
}

// NewCounterRepository construye el repositorio sobre el Store.
func NewCounterRepository(store *Store) *CounterRepo {
	return &CounterRepo{store: store}
}

// Increment suma 1 al contador y devuelve el nuevo valor.
func (r *CounterRepo) Increment(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	r.store.counters[name]++
	return r.store.counters[name], nil
}
