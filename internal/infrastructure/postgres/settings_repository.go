package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

const storeSettingsKey = "store"

// SettingsRepo configuración clave/valor; la tienda vive en la fila key = 'store'.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetStore obtiene la configuración de la tienda.
func (r *SettingsRepo) GetStore(ctx context.Context) (*entity.StoreSettings, error) {
	var s entity.StoreSettings
	err := r.q.QueryRow(ctx,
		`SELECT name, nit, address, phone, logo, updated_at FROM settings WHERE key = $1`, storeSettingsKey,
	).Scan(&s.Name, &s.NIT, &s.Address, &s.Phone, &s.Logo, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store settings: %w", err)
	}
	return &s, nil
}

// SaveStore hace upsert de la configuración de la tienda.
func (r *SettingsRepo) SaveStore(ctx context.Context, s *entity.StoreSettings) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO settings (key, name, nit, address, phone, logo)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE
		SET name = EXCLUDED.name, nit = EXCLUDED.nit, address = EXCLUDED.address,
		    phone = EXCLUDED.phone, logo = EXCLUDED.logo, updated_at = now()
		RETURNING updated_at`,
		storeSettingsKey, s.Name, s.NIT, s.Address, s.Phone, s.Logo,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save store settings: %w", err)
	}
	return nil
}
