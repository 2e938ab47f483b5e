package repository

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// SettingsRepository persiste la configuración de la tienda. GetStore devuelve (nil, nil) si no existe.
type SettingsRepository interface {
	GetStore(ctx context.Context) (*entity.StoreSettings, error)
	SaveStore(ctx context.Context, settings *entity.StoreSettings) error
}
