package inventory

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
)

// RecordFromRequest adapta el request HTTP al caso de uso Record(ctx, MovementInput).
// El usuario que actúa viene del token, nunca del cuerpo.
func (uc *RegisterMovementUseCase) RecordFromRequest(ctx context.Context, userID, userEmail string, in dto.RegisterMovementRequest) (string, error) {
	return uc.Record(ctx, MovementInput{
		ProductID:   in.ProductID,
		Type:        in.Type,
		Units:       in.Units,
		SaleType:    in.SaleType,
		PriceAtSale: in.PriceAtSale,
		UnitCost:    in.UnitCost,
		Note:        in.Note,
		UserID:      userID,
		UserEmail:   userEmail,
	})
}
