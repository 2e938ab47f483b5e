package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
)

// Notas con las que se etiquetan los movimientos generados por facturas.
const (
	notePrefixCreate = "Factura "
	notePrefixAdjust = "Ajuste Factura "
	notePrefixVoid   = "Anulación Factura "
)

// Actor usuario autenticado que ejecuta la operación.
type Actor struct {
	UserID string
	Email  string
}

// InvoiceDraft datos de cliente y líneas enviados por el llamador. Los totales se calculan aquí.
type InvoiceDraft struct {
	CustomerName     string
	CustomerDocument string
	CustomerEmail    string
	Notes            string
	Items            []entity.InvoiceItem
}

// ReconcileError indica que la factura quedó escrita pero un movimiento de inventario falló.
// Los movimientos anteriores al fallo se conservan; InvoiceID permite conciliar manualmente.
type ReconcileError struct {
	InvoiceID string
	ProductID string
	Op        string // create, update, delete
	Err       error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("factura %s (%s): movimiento de inventario para producto %s falló: %v", e.InvoiceID, e.Op, e.ProductID, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// InvoiceUseCase mantiene las líneas de las facturas conciliadas con el kardex en crear, editar y eliminar.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
	movements   MovementRecorder
	numbers     NumberAllocator
	log         *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	movements MovementRecorder,
	numbers NumberAllocator,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		movements:   movements,
		numbers:     numbers,
		log:         logger.OrNop(log).Named("billing"),
	}
}

// Create valida el borrador, reserva el consecutivo, guarda la factura y registra una salida por línea.
func (uc *InvoiceUseCase) Create(ctx context.Context, actor Actor, draft InvoiceDraft) (*entity.Invoice, error) {
	items, total, err := uc.prepareItems(ctx, draft.Items)
	if err != nil {
		return nil, err
	}

	number, err := uc.numbers.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}

	inv := &entity.Invoice{
		ID:               uuid.New().String(),
		Number:           &number,
		CustomerName:     strings.TrimSpace(draft.CustomerName),
		CustomerDocument: strings.TrimSpace(draft.CustomerDocument),
		CustomerEmail:    strings.TrimSpace(draft.CustomerEmail),
		Items:            items,
		Subtotal:         total,
		Total:            total,
		Notes:            strings.TrimSpace(draft.Notes),
		UserID:           actor.UserID,
		UserEmail:        actor.Email,
	}
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}

	note := notePrefixCreate + inv.ID
	for _, it := range inv.Items {
		price := it.Price
		if _, err := uc.movements.Record(ctx, inventory.MovementInput{
			ProductID:   it.ProductID,
			Type:        entity.MovementTypeOut,
			Units:       it.Units,
			SaleType:    it.SaleType,
			PriceAtSale: &price,
			Note:        note,
			InvoiceID:   inv.ID,
			UserID:      actor.UserID,
			UserEmail:   actor.Email,
		}); err != nil {
			return nil, uc.reconcileFailed(inv.ID, it.ProductID, "create", err)
		}
	}

	uc.log.Info().Str("invoice_id", inv.ID).Int64("number", number).Int("items", len(items)).Msg("factura creada")
	return inv, nil
}

// Update sobrescribe la factura y registra solo la diferencia neta de unidades por producto:
// más unidades generan una salida con el canal y precio de la primera línea nueva del producto;
// menos unidades generan una entrada sin costo (no altera el costo promedio).
func (uc *InvoiceUseCase) Update(ctx context.Context, actor Actor, id string, draft InvoiceDraft) (*entity.Invoice, error) {
	items, total, err := uc.prepareItems(ctx, draft.Items)
	if err != nil {
		return nil, err
	}

	prev, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("editar factura: %w", err)
	}
	if prev == nil {
		return nil, domain.ErrNotFound
	}

	next := &entity.Invoice{
		ID:               prev.ID,
		Number:           prev.Number,
		CustomerName:     strings.TrimSpace(draft.CustomerName),
		CustomerDocument: strings.TrimSpace(draft.CustomerDocument),
		CustomerEmail:    strings.TrimSpace(draft.CustomerEmail),
		Items:            items,
		Subtotal:         total,
		Total:            total,
		Notes:            strings.TrimSpace(draft.Notes),
		UserID:           prev.UserID,
		UserEmail:        prev.UserEmail,
		CreatedAt:        prev.CreatedAt,
	}
	if err := uc.invoiceRepo.Update(ctx, next); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("editar factura: %w", err)
	}

	oldUnits := prev.UnitsByProduct()
	newUnits := next.UnitsByProduct()
	note := notePrefixAdjust + id

	for _, productID := range unionSorted(oldUnits, newUnits) {
		diff := newUnits[productID] - oldUnits[productID]
		if diff == 0 {
			continue
		}
		in := inventory.MovementInput{
			ProductID: productID,
			Note:      note,
			InvoiceID: id,
			UserID:    actor.UserID,
			UserEmail: actor.Email,
		}
		if diff > 0 {
			line := firstLine(items, productID)
			price := line.Price
			in.Type = entity.MovementTypeOut
			in.Units = diff
			in.SaleType = line.SaleType
			in.PriceAtSale = &price
		} else {
			zero := decimal.Zero
			in.Type = entity.MovementTypeIn
			in.Units = -diff
			in.UnitCost = &zero
		}
		if err := uc.record(ctx, in); err != nil {
			return nil, uc.reconcileFailed(id, productID, "update", err)
		}
	}

	uc.log.Info().Str("invoice_id", id).Str("user", actor.Email).Msg("factura editada")
	return next, nil
}

// Delete elimina la factura y devuelve al inventario todas las unidades de sus líneas actuales.
// No descuenta ajustes previos hechos por ediciones: cada línea vigente se devuelve completa.
func (uc *InvoiceUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("eliminar factura: %w", err)
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if err := uc.invoiceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("eliminar factura: %w", err)
	}

	note := notePrefixVoid + id
	zero := decimal.Zero
	for _, it := range inv.Items {
		if err := uc.record(ctx, inventory.MovementInput{
			ProductID: it.ProductID,
			Type:      entity.MovementTypeIn,
			Units:     it.Units,
			UnitCost:  &zero,
			Note:      note,
			InvoiceID: id,
			UserID:    actor.UserID,
			UserEmail: actor.Email,
		}); err != nil {
			return uc.reconcileFailed(id, it.ProductID, "delete", err)
		}
	}

	uc.log.Info().Str("invoice_id", id).Str("user", actor.Email).Msg("factura eliminada")
	return nil
}

// Get obtiene una factura por ID.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// List devuelve las facturas de la más reciente a la más antigua.
func (uc *InvoiceUseCase) List(ctx context.Context) ([]*entity.Invoice, error) {
	list, err := uc.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	return list, nil
}

// record registra un movimiento de conciliación. Si el producto ya no existe no hay existencia que ajustar
// y el movimiento se omite con una advertencia.
func (uc *InvoiceUseCase) record(ctx context.Context, in inventory.MovementInput) error {
	_, err := uc.movements.Record(ctx, in)
	if errors.Is(err, domain.ErrNotFound) {
		uc.log.Warn().Str("product_id", in.ProductID).Str("invoice_id", in.InvoiceID).
			Msg("producto eliminado, se omite el ajuste de inventario")
		return nil
	}
	return err
}

func (uc *InvoiceUseCase) reconcileFailed(invoiceID, productID, op string, err error) error {
	uc.log.Error().Err(err).Str("invoice_id", invoiceID).Str("product_id", productID).Str("op", op).
		Msg("conciliación de inventario incompleta")
	return &ReconcileError{InvoiceID: invoiceID, ProductID: productID, Op: op, Err: err}
}

// prepareItems valida y normaliza las líneas y devuelve el total. Ninguna escritura ocurre antes.
// Reglas: al menos una línea; producto existente; unidades > 0; canal detal|mayor (vacío = detal); precio >= 0.
func (uc *InvoiceUseCase) prepareItems(ctx context.Context, raw []entity.InvoiceItem) ([]entity.InvoiceItem, decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, decimal.Zero, domain.ErrInvalidInvoice
	}
	items := make([]entity.InvoiceItem, 0, len(raw))
	total := decimal.Zero
	for i, it := range raw {
		it.ProductID = strings.TrimSpace(it.ProductID)
		it.SaleType = strings.ToLower(strings.TrimSpace(it.SaleType))
		if it.SaleType == "" {
			it.SaleType = entity.SaleTypeDetal
		}
		switch {
		case it.ProductID == "":
			return nil, decimal.Zero, fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInvoice, i+1)
		case it.Units <= 0:
			return nil, decimal.Zero, fmt.Errorf("%w: línea %d con unidades inválidas", domain.ErrInvalidInvoice, i+1)
		case !entity.ValidSaleType(it.SaleType):
			return nil, decimal.Zero, fmt.Errorf("%w: línea %d con tipo de venta %q", domain.ErrInvalidInvoice, i+1, it.SaleType)
		case it.Price.IsNegative():
			return nil, decimal.Zero, fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInvoice, i+1)
		}
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("validar factura: %w", err)
		}
		if product == nil {
			return nil, decimal.Zero, fmt.Errorf("%w: línea %d, producto %s no existe", domain.ErrInvalidInvoice, i+1, it.ProductID)
		}
		if strings.TrimSpace(it.ProductName) == "" {
			it.ProductName = product.Name
		}
		total = total.Add(it.LineTotal())
		items = append(items, it)
	}
	return items, total, nil
}

func unionSorted(a, b map[string]int64) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstLine(items []entity.InvoiceItem, productID string) entity.InvoiceItem {
	for _, it := range items {
		if it.ProductID == productID {
			return it
		}
	}
	return entity.InvoiceItem{ProductID: productID, SaleType: entity.SaleTypeDetal}
}
