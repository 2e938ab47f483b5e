package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-facturacion/internal/application/catalog"
	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/memory"
)

type fakeImages struct {
	mu       sync.Mutex
	url      string
	err      error
	uploads  int
	deleted  chan string
	deleteErr error
}

func (f *fakeImages) Upload(_ context.Context, productID, filename string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.deleted <- url
	return f.deleteErr
}

type catalogEnv struct {
	uc     *catalog.ProductUseCase
	movs   *memory.StockMovementRepo
	images *fakeImages
}

func newCatalog(t *testing.T) catalogEnv {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	movs := memory.NewStockMovementRepository(store)
	recorder := inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), products, movs, nil)
	images := &fakeImages{url: "https://img/1.png", deleted: make(chan string, 1)}
	return catalogEnv{
		uc:     catalog.NewProductUseCase(products, recorder, images, 0, nil),
		movs:   movs,
		images: images,
	}
}

func create(t *testing.T, e catalogEnv, name, category string, qty int64) *dto.ProductResponse {
	t.Helper()
	p, err := e.uc.Create(context.Background(), "u1", "admin@happy.co", dto.CreateProductRequest{
		Name: name, Category: category, Price: decimal.NewFromInt(5000), Cost: decimal.NewFromInt(3000), Quantity: qty,
	})
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ExistenciaInicialComoEntrada(t *testing.T) {
	e := newCatalog(t)
	p := create(t, e, "Piñata Stitch", "Piñatas", 12)

	assert.Equal(t, int64(12), p.Quantity)
	assert.Equal(t, "3000", p.Cost.String())
	assert.False(t, p.LowStock)

	movs, err := e.movs.List(context.Background(), repository.MovementFilter{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type)
	assert.Equal(t, int64(12), movs[0].Units)
	assert.Equal(t, "admin@happy.co", *movs[0].UserEmail)
}

func TestCreate_SinExistenciaNoRegistraMovimiento(t *testing.T) {
	e := newCatalog(t)
	p := create(t, e, "Velas", "", 0)
	assert.True(t, p.LowStock)

	movs, _ := e.movs.List(context.Background(), repository.MovementFilter{})
	assert.Empty(t, movs)
}

func TestCreate_Validaciones(t *testing.T) {
	e := newCatalog(t)
	casos := []dto.CreateProductRequest{
		{Name: "  "},
		{Name: "x", Price: decimal.NewFromInt(-1)},
		{Name: "x", Quantity: -3},
	}
	for _, in := range casos {
		_, err := e.uc.Create(context.Background(), "", "", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestUpdate_NoTocaExistenciaNiCosto(t *testing.T) {
	e := newCatalog(t)
	p := create(t, e, "Globos", "Decoración", 20)

	name := "Globos x12"
	price := decimal.NewFromInt(7000)
	upd, err := e.uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Globos x12", upd.Name)
	assert.Equal(t, "Decoración", upd.Category)
	assert.Equal(t, "7000", upd.Price.String())
	assert.Equal(t, int64(20), upd.Quantity)
	assert.Equal(t, "3000", upd.Cost.String())

	_, err = e.uc.Update(context.Background(), "nada", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestList_BusquedaSinTildesYPaginacion(t *testing.T) {
	e := newCatalog(t)
	create(t, e, "Piñata Unicornio", "Piñatas", 10)
	create(t, e, "Piñata Spiderman", "Piñatas", 10)
	create(t, e, "Bombas", "Decoración", 10)

	res, err := e.uc.List(context.Background(), "pinata", dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Piñata Spiderman", res.Items[0].Name)

	res, err = e.uc.List(context.Background(), "DECORACION", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Bombas", res.Items[0].Name)
}

func TestLowStock(t *testing.T) {
	e := newCatalog(t)
	create(t, e, "A", "", 5)
	create(t, e, "B", "", 0)
	create(t, e, "C", "", 6)

	low, err := e.uc.LowStock(context.Background(), -1)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "B", low[0].Name)
	assert.Equal(t, "A", low[1].Name)

	low, err = e.uc.LowStock(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, low, 3)
}

func TestDelete(t *testing.T) {
	e := newCatalog(t)
	p := create(t, e, "A", "", 1)
	require.NoError(t, e.uc.Delete(context.Background(), p.ID))
	assert.ErrorIs(t, e.uc.Delete(context.Background(), p.ID), domain.ErrNotFound)
	_, err := e.uc.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Imágenes
// ──────────────────────────────────────────────────────────────────────────────

func TestSetImage_ReemplazaYEliminaAnterior(t *testing.T) {
	e := newCatalog(t)
	p := create(t, e, "A", "", 1)

	res, err := e.uc.SetImage(context.Background(), p.ID, "a.png", []byte("png"))
	require.NoError(t, err)
	assert.True(t, res.ImageUpdated)
	assert.Equal(t, "https://img/1.png", res.Product.ImageURL)

	e.images.url = "https://img/2.png"
	res, err = e.uc.SetImage(context.Background(), p.ID, "b.png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://img/2.png", res.Product.ImageURL)

	select {
	case url := <-e.images.deleted:
		assert.Equal(t, "https://img/1.png", url)
	case <-time.After(time.Second):
		t.Fatal("la imagen anterior no se eliminó")
	}
}

func TestSetImage_FallaDeSubidaConservaProducto(t *testing.T) {
	e := newCatalog(t)
	p := create(t, e, "A", "", 1)
	e.images.err = errors.New("cloudinary caído")

	res, err := e.uc.SetImage(context.Background(), p.ID, "a.png", []byte("png"))
	require.NoError(t, err)
	assert.False(t, res.ImageUpdated)
	assert.Empty(t, res.Product.ImageURL)

	got, err := e.uc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ImageURL)
}

func TestSetImage_ProductoInexistente(t *testing.T) {
	e := newCatalog(t)
	_, err := e.uc.SetImage(context.Background(), "nada", "a.png", []byte("png"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, e.images.uploads)
}
