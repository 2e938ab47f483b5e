package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-facturacion/internal/application/billing"
	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/memory"
)

type env struct {
	uc       *billing.InvoiceUseCase
	products *memory.ProductRepo
	movs     *memory.StockMovementRepo
	invoices *memory.InvoiceRepo
}

var vendedor = billing.Actor{UserID: "u1", Email: "vendedor@happy.co"}

func newEnv(t *testing.T) env {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	movs := memory.NewStockMovementRepository(store)
	invoices := memory.NewInvoiceRepository(store)
	recorder := inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), products, movs, nil)
	numbers := billing.NewInvoiceNumberAllocator(memory.NewCounterRepository(store), 0, 0, nil)
	return env{
		uc:       billing.NewInvoiceUseCase(invoices, products, recorder, numbers, nil),
		products: products,
		movs:     movs,
		invoices: invoices,
	}
}

func (e env) seed(t *testing.T, id string, qty int64) {
	t.Helper()
	require.NoError(t, e.products.Create(context.Background(), &entity.Product{
		ID: id, Name: "Producto " + id, Price: decimal.NewFromInt(5000), Cost: decimal.NewFromInt(2000), Quantity: qty,
	}))
}

func (e env) qty(t *testing.T, id string) int64 {
	t.Helper()
	p, err := e.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func item(productID, saleType string, price, units int64) entity.InvoiceItem {
	return entity.InvoiceItem{ProductID: productID, SaleType: saleType, Price: decimal.NewFromInt(price), Units: units}
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DescuentaExistenciaYCalculaTotal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 10)
	e.seed(t, "b", 4)

	inv, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{
		CustomerName: "  Ana  ",
		Items:        []entity.InvoiceItem{item("a", "detal", 5000, 2), item("b", "mayor", 3000, 3)},
	})
	require.NoError(t, err)

	require.NotNil(t, inv.Number)
	assert.Equal(t, int64(1), *inv.Number)
	assert.Equal(t, "Ana", inv.CustomerName)
	assert.Equal(t, "19000", inv.Total.String())
	assert.True(t, inv.Subtotal.Equal(inv.Total))
	assert.Equal(t, "Producto a", inv.Items[0].ProductName)
	assert.Equal(t, int64(8), e.qty(t, "a"))
	assert.Equal(t, int64(1), e.qty(t, "b"))

	movs, err := e.movs.List(ctx, repository.MovementFilter{InvoiceID: inv.ID})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeOut, m.Type)
		assert.Equal(t, "Factura "+inv.ID, m.Note)
		require.NotNil(t, m.UserEmail)
		assert.Equal(t, vendedor.Email, *m.UserEmail)
	}
}

func TestCreate_CanalVacioEsDetal(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "a", 10)

	inv, err := e.uc.Create(context.Background(), vendedor, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "", 100, 1)}})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleTypeDetal, inv.Items[0].SaleType)
}

func TestCreate_InvalidaNoEscribeNada(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 10)

	casos := map[string][]entity.InvoiceItem{
		"sin líneas":         nil,
		"unidades en cero":   {item("a", "detal", 100, 0)},
		"canal inválido":     {item("a", "credito", 100, 1)},
		"precio negativo":    {item("a", "detal", -1, 1)},
		"producto inexiste":  {item("a", "detal", 100, 1), item("zz", "detal", 100, 1)},
		"línea sin producto": {item("", "detal", 100, 1)},
	}
	for nombre, items := range casos {
		_, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{Items: items})
		assert.ErrorIs(t, err, domain.ErrInvalidInvoice, nombre)
	}

	assert.Equal(t, int64(10), e.qty(t, "a"))
	list, _ := e.invoices.List(ctx)
	assert.Empty(t, list)
	movs, _ := e.movs.List(ctx, repository.MovementFilter{})
	assert.Empty(t, movs)
}

func TestCreate_ConsecutivosUnicosConcurrentes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 1000)

	const n = 40
	numbers := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 100, 1)}})
			if assert.NoError(t, err) {
				numbers <- *inv.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for num := range numbers {
		assert.False(t, seen[num], "consecutivo duplicado %d", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i])
	}
	assert.Equal(t, int64(1000-n), e.qty(t, "a"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Editar
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AjustaSoloLaDiferencia(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 10)
	e.seed(t, "b", 10)
	e.seed(t, "c", 10)

	inv, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{
		Items: []entity.InvoiceItem{item("a", "detal", 100, 2), item("b", "detal", 100, 5)},
	})
	require.NoError(t, err)

	editor := billing.Actor{UserID: "u2", Email: "admin@happy.co"}
	upd, err := e.uc.Update(ctx, editor, inv.ID, billing.InvoiceDraft{
		CustomerName: "Luis",
		Items:        []entity.InvoiceItem{item("a", "mayor", 80, 5), item("b", "detal", 100, 1), item("c", "detal", 100, 2)},
	})
	require.NoError(t, err)

	assert.Equal(t, inv.Number, upd.Number)
	assert.Equal(t, vendedor.Email, upd.UserEmail)
	assert.Equal(t, "Luis", upd.CustomerName)
	assert.Equal(t, int64(5), e.qty(t, "a"))
	assert.Equal(t, int64(9), e.qty(t, "b"))
	assert.Equal(t, int64(8), e.qty(t, "c"))

	adjust, err := e.movs.List(ctx, repository.MovementFilter{InvoiceID: inv.ID})
	require.NoError(t, err)
	byProduct := map[string]*entity.StockMovement{}
	for _, m := range adjust {
		if m.Note == "Ajuste Factura "+inv.ID {
			byProduct[m.ProductID] = m
		}
	}
	require.Len(t, byProduct, 3)

	a := byProduct["a"]
	assert.Equal(t, entity.MovementTypeOut, a.Type)
	assert.Equal(t, int64(3), a.Units)
	require.NotNil(t, a.SaleType)
	assert.Equal(t, entity.SaleTypeMayor, *a.SaleType)
	assert.Equal(t, "80", a.PriceAtSale.String())
	assert.Equal(t, editor.Email, *a.UserEmail)

	b := byProduct["b"]
	assert.Equal(t, entity.MovementTypeIn, b.Type)
	assert.Equal(t, int64(4), b.Units)
	assert.True(t, b.CostAtEntry.IsZero())
}

func TestUpdate_DevolucionNoAlteraCostoPromedio(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 10)

	inv, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 100, 4)}})
	require.NoError(t, err)
	_, err = e.uc.Update(ctx, vendedor, inv.ID, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 100, 1)}})
	require.NoError(t, err)

	p, _ := e.products.GetByID(ctx, "a")
	assert.Equal(t, int64(9), p.Quantity)
	assert.Equal(t, "2000", p.Cost.String())
}

func TestUpdate_SinCambiosNoGeneraMovimientos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 10)

	inv, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 100, 2), item("a", "mayor", 90, 1)}})
	require.NoError(t, err)
	_, err = e.uc.Update(ctx, vendedor, inv.ID, billing.InvoiceDraft{Notes: "solo notas", Items: []entity.InvoiceItem{item("a", "detal", 100, 3)}})
	require.NoError(t, err)

	movs, _ := e.movs.List(ctx, repository.MovementFilter{InvoiceID: inv.ID})
	assert.Len(t, movs, 2)
	assert.Equal(t, int64(7), e.qty(t, "a"))
}

func TestUpdate_Inexistente(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "a", 10)
	_, err := e.uc.Update(context.Background(), vendedor, "nada", billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 1, 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), e.qty(t, "a"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminar
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_DevuelveUnidades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 10)

	inv, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 100, 3)}})
	require.NoError(t, err)
	require.NoError(t, e.uc.Delete(ctx, vendedor, inv.ID))

	assert.Equal(t, int64(10), e.qty(t, "a"))
	_, err = e.uc.Get(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	movs, _ := e.movs.List(ctx, repository.MovementFilter{InvoiceID: inv.ID, Type: entity.MovementTypeIn})
	require.Len(t, movs, 1)
	assert.Equal(t, "Anulación Factura "+inv.ID, movs[0].Note)

	assert.ErrorIs(t, e.uc.Delete(ctx, vendedor, inv.ID), domain.ErrNotFound)
}

func TestDelete_TrasEdicionDevuelveLineasVigentes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 10)

	inv, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 100, 2)}})
	require.NoError(t, err)
	_, err = e.uc.Update(ctx, vendedor, inv.ID, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 100, 5)}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), e.qty(t, "a"))

	require.NoError(t, e.uc.Delete(ctx, vendedor, inv.ID))
	assert.Equal(t, int64(10), e.qty(t, "a"))
}

func TestDelete_ProductoEliminadoSeOmite(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seed(t, "a", 10)
	e.seed(t, "b", 10)

	inv, err := e.uc.Create(ctx, vendedor, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 100, 1), item("b", "detal", 100, 2)}})
	require.NoError(t, err)
	require.NoError(t, e.products.Delete(ctx, "a"))

	require.NoError(t, e.uc.Delete(ctx, vendedor, inv.ID))
	assert.Equal(t, int64(10), e.qty(t, "b"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallas parciales
// ──────────────────────────────────────────────────────────────────────────────

type failingRecorder struct {
	inner  billing.MovementRecorder
	failOn string
	err    error
}

func (f *failingRecorder) Record(ctx context.Context, in inventory.MovementInput) (string, error) {
	if in.ProductID == f.failOn {
		return "", f.err
	}
	return f.inner.Record(ctx, in)
}

func TestCreate_FallaDeMovimientoDevuelveReconcileError(t *testing.T) {
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	movs := memory.NewStockMovementRepository(store)
	invoices := memory.NewInvoiceRepository(store)
	recorder := inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), products, movs, nil)
	boom := errors.New("disco lleno")
	uc := billing.NewInvoiceUseCase(invoices, products,
		&failingRecorder{inner: recorder, failOn: "b", err: boom},
		billing.NewInvoiceNumberAllocator(memory.NewCounterRepository(store), 1, time.Millisecond, nil), nil)

	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		require.NoError(t, products.Create(ctx, &entity.Product{ID: id, Name: id, Quantity: 10}))
	}

	_, err := uc.Create(ctx, vendedor, billing.InvoiceDraft{Items: []entity.InvoiceItem{item("a", "detal", 1, 2), item("b", "detal", 1, 2)}})
	require.Error(t, err)
	var rerr *billing.ReconcileError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "b", rerr.ProductID)
	assert.Equal(t, "create", rerr.Op)
	assert.ErrorIs(t, err, boom)

	saved, err := invoices.GetByID(ctx, rerr.InvoiceID)
	require.NoError(t, err)
	assert.NotNil(t, saved)
	a, _ := products.GetByID(ctx, "a")
	assert.Equal(t, int64(8), a.Quantity)
}
