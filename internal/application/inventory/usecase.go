package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
)

// DeletedProductName nombre mostrado para movimientos cuyo producto ya no existe.
const DeletedProductName = "(eliminado)"

// MovementInput entrada para registrar un movimiento.
// Para salidas: SaleType (detal|mayor, opcional) y PriceAtSale. Para entradas: UnitCost.
// Los campos del otro sentido se ignoran.
type MovementInput struct {
	ProductID   string
	Type        string
	Units       int64
	SaleType    string
	PriceAtSale *decimal.Decimal
	UnitCost    *decimal.Decimal
	Note        string
	InvoiceID   string
	UserID      string
	UserEmail   string
}

// MovementView movimiento con el nombre del producto resuelto (para listados).
type MovementView struct {
	*entity.StockMovement
	ProductName string
}

// RegisterMovementUseCase registra movimientos del kardex y ajusta existencia y costo del producto
// en una sola transacción.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	log         *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		log:         logger.OrNop(log).Named("inventory"),
	}
}

// Record valida la entrada, aplica el delta de existencia (y el nuevo costo promedio en entradas)
// y agrega el movimiento. Devuelve el ID del movimiento.
// Entradas inválidas devuelven domain.ErrInvalidMovement sin escribir nada;
// un producto inexistente devuelve domain.ErrNotFound.
func (uc *RegisterMovementUseCase) Record(ctx context.Context, in MovementInput) (string, error) {
	if err := validate(&in); err != nil {
		return "", err
	}

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      in.Type,
		Units:     in.Units,
		Note:      in.Note,
		InvoiceID: optional(in.InvoiceID),
		UserID:    optional(in.UserID),
		UserEmail: optional(in.UserEmail),
	}
	units := decimal.NewFromInt(in.Units)

	err := uc.txRunner.Run(ctx, func(ctx context.Context, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		var newCost *decimal.Decimal
		switch in.Type {
		case entity.MovementTypeIn:
			if cost, changed := inventory.WeightedAverageCost(product.Quantity, product.Cost, in.Units, in.UnitCost); changed {
				newCost = &cost
			}
			entry := decimal.Zero
			if in.UnitCost != nil {
				entry = *in.UnitCost
			}
			mov.CostAtEntry = &entry
			mov.Total = units.Mul(entry)
		case entity.MovementTypeOut:
			price := decimal.Zero
			if in.PriceAtSale != nil {
				price = *in.PriceAtSale
			}
			mov.SaleType = optional(in.SaleType)
			mov.PriceAtSale = &price
			mov.Total = units.Mul(price)
		}

		if err := productRepo.ApplyMovement(ctx, in.ProductID, mov.Delta(), newCost); err != nil {
			return err
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("registrar movimiento: %w", err)
	}

	uc.log.Debug().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("type", mov.Type).
		Int64("delta", mov.Delta()).
		Msg("movimiento registrado")
	return mov.ID, nil
}

// List devuelve todos los movimientos (más recientes primero) con el nombre del producto.
func (uc *RegisterMovementUseCase) List(ctx context.Context, filter repository.MovementFilter) ([]MovementView, error) {
	movs, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	out := make([]MovementView, 0, len(movs))
	for _, m := range movs {
		name, ok := names[m.ProductID]
		if !ok {
			name = DeletedProductName
		}
		out = append(out, MovementView{StockMovement: m, ProductName: name})
	}
	return out, nil
}

func validate(in *MovementInput) error {
	in.ProductID = strings.TrimSpace(in.ProductID)
	if in.ProductID == "" || in.Units <= 0 || !entity.ValidMovementType(in.Type) {
		return domain.ErrInvalidMovement
	}
	switch in.Type {
	case entity.MovementTypeOut:
		if in.SaleType != "" && !entity.ValidSaleType(in.SaleType) {
			return domain.ErrInvalidMovement
		}
		if in.PriceAtSale != nil && in.PriceAtSale.IsNegative() {
			return domain.ErrInvalidMovement
		}
	case entity.MovementTypeIn:
		if in.UnitCost != nil && in.UnitCost.IsNegative() {
			return domain.ErrInvalidMovement
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
