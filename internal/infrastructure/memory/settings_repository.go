package memory

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo configuración de tienda en memoria.
type SettingsRepo struct {
	store *Store
}

// NewSettingsRepository construye el repositorio sobre el Store.
func NewSettingsRepository(store *Store) *SettingsRepo {
	return &SettingsRepo{store: store}
}

// GetStore devuelve la configuración guardada o (nil, nil).
func (r *SettingsRepo) GetStore(ctx context.Context) (*entity.StoreSettings, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	if r.store.settings == nil {
		return nil, nil
	}
	cp := *r.store.settings
	return &cp, nil
}

// SaveStore reemplaza la configuración.
func (r *SettingsRepo) SaveStore(ctx context.Context, s *entity.StoreSettings) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	s.UpdatedAt = r.store.timestamp()
	cp := *s
	r.store.settings = &cp
	return nil
}
