package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
	"github.com/jhoicas/inventario-facturacion/pkg/nit"
)

// UseCase lee y guarda la identidad de la tienda.
type UseCase struct {
	repo repository.SettingsRepository
	log  *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.SettingsRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, log: logger.OrNop(log).Named("settings")}
}

// Get devuelve la configuración guardada o los valores por defecto si aún no existe.
func (uc *UseCase) Get(ctx context.Context) (entity.StoreSettings, error) {
	s, err := uc.repo.GetStore(ctx)
	if err != nil {
		return entity.StoreSettings{}, fmt.Errorf("obtener configuración: %w", err)
	}
	if s == nil {
		return entity.DefaultStoreSettings(), nil
	}
	return *s, nil
}

// Update reemplaza la configuración completa. El nombre es obligatorio; un NIT de 9 dígitos
// se completa con su dígito de verificación y uno con guion se valida.
func (uc *UseCase) Update(ctx context.Context, in dto.StoreSettingsRequest) (entity.StoreSettings, error) {
	s := entity.StoreSettings{
		Name:    strings.TrimSpace(in.Name),
		NIT:     strings.TrimSpace(in.NIT),
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
		Logo:    strings.TrimSpace(in.Logo),
	}
	if s.Name == "" {
		return entity.StoreSettings{}, fmt.Errorf("%w: el nombre de la tienda es obligatorio", domain.ErrInvalidInput)
	}
	normalized, err := nit.Normalize(s.NIT)
	if err != nil {
		return entity.StoreSettings{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	s.NIT = normalized
	if err := uc.repo.SaveStore(ctx, &s); err != nil {
		return entity.StoreSettings{}, fmt.Errorf("guardar configuración: %w", err)
	}
	uc.log.Info().Str("name", s.Name).Msg("configuración de tienda actualizada")
	return s, nil
}

// ToResponse convierte la entidad al DTO de salida.
func ToResponse(s entity.StoreSettings) dto.StoreSettingsResponse {
	return dto.StoreSettingsResponse{
		Name:    s.Name,
		NIT:     s.NIT,
		Address: s.Address,
		Phone:   s.Phone,
		Logo:    s.Logo,
	}
}
