package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo contadores persistentes (tabla counters) incrementados en transacciones SERIALIZABLE.
type CounterRepo struct {
	pool *pgxpool.Pool
}

// NewCounterRepository construye el adaptador.
func NewCounterRepository(pool *pgxpool.Pool) *CounterRepo {
	return &CounterRepo{pool: pool}
}

// Increment hace upsert de seq+1 dentro de una transacción serializable.
// Una falla de serialización o deadlock se reporta como domain.ErrConflict para que el llamador reintente.
func (r *CounterRepo) Increment(ctx context.Context, name string) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, fmt.Errorf("begin counter transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var seq int64
	err = tx.QueryRow(ctx, `
		INSERT INTO counters (name, seq) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1, updated_at = now()
		RETURNING seq`, name).Scan(&seq)
	if err != nil {
		if isRetryable(err) {
			return 0, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		if isRetryable(err) {
			return 0, fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return 0, fmt.Errorf("commit counter %s: %w", name, err)
	}
	return seq, nil
}
