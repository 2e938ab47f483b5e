package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_ApplyMovementConcurrente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewProductRepository(store)
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p1", Name: "Piñata"}))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			delta := int64(3)
			if i%2 == 0 {
				delta = -1
			}
			assert.NoError(t, repo.ApplyMovement(ctx, "p1", delta, nil))
		}(i)
	}
	wg.Wait()

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(50*3-50), p.Quantity)
}

func TestProductRepo_ApplyMovementNoExiste(t *testing.T) {
	repo := memory.NewProductRepository(memory.NewStore())
	err := repo.ApplyMovement(context.Background(), "nada", 1, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepo_UpdateNoTocaExistenciaNiCosto(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(memory.NewStore())
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p1", Name: "Bombas"}))
	cost := decimal.NewFromInt(120)
	require.NoError(t, repo.ApplyMovement(ctx, "p1", 7, &cost))

	require.NoError(t, repo.Update(ctx, &entity.Product{ID: "p1", Name: "Bombas x50", Quantity: 999, Cost: decimal.NewFromInt(1)}))

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Bombas x50", p.Name)
	assert.Equal(t, int64(7), p.Quantity)
	assert.True(t, p.Cost.Equal(cost))
}

func TestProductRepo_GetByIDInexistenteDevuelveNil(t *testing.T) {
	p, err := memory.NewProductRepository(memory.NewStore()).GetByID(context.Background(), "x")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestStockMovementRepo_OrdenYFiltro(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	})
	repo := memory.NewStockMovementRepository(store)

	mayor := entity.SaleTypeMayor
	require.NoError(t, repo.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Type: entity.MovementTypeIn, Units: 5}))
	require.NoError(t, repo.Create(ctx, &entity.StockMovement{ID: "m2", ProductID: "p1", Type: entity.MovementTypeOut, Units: 2, SaleType: &mayor}))
	require.NoError(t, repo.Create(ctx, &entity.StockMovement{ID: "m3", ProductID: "p2", Type: entity.MovementTypeOut, Units: 1}))

	all, err := repo.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m3", all[0].ID, "más reciente primero")
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	outs, err := repo.List(ctx, repository.MovementFilter{Type: entity.MovementTypeOut, SaleType: entity.SaleTypeMayor})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, "m2", outs[0].ID)

	to := base.Add(2 * time.Hour)
	early, err := repo.List(ctx, repository.MovementFilter{To: &to})
	require.NoError(t, err)
	require.Len(t, early, 1, "To es exclusivo")
	assert.Equal(t, "m1", early[0].ID)
}

func TestStore_TimestampsEstrictamenteCrecientes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })
	repo := memory.NewStockMovementRepository(store)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &entity.StockMovement{ProductID: "p", Type: entity.MovementTypeIn, Units: 1}))
	}
	list, err := repo.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
	assert.True(t, list[1].CreatedAt.After(list[2].CreatedAt))
}

// ──────────────────────────────────────────────────────────────────────────────
// Contador y facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestCounterRepo_IncrementConcurrenteSinDuplicados(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCounterRepository(memory.NewStore())

	const n = 200
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Increment(ctx, "invoices")
			assert.NoError(t, err)
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for v := range results {
		assert.False(t, seen[v], "valor repetido %d", v)
		seen[v] = true
	}
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "falta %d", i)
	}
}

func TestInvoiceRepo_UpdateConservaNumeroYAutor(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInvoiceRepository(memory.NewStore())
	n := int64(7)
	inv := &entity.Invoice{ID: "f1", Number: &n, UserEmail: "ana@tienda.co", Items: []entity.InvoiceItem{{ProductID: "p1", Units: 2}}}
	require.NoError(t, repo.Create(ctx, inv))

	upd := &entity.Invoice{ID: "f1", CustomerName: "Luis", Items: []entity.InvoiceItem{{ProductID: "p1", Units: 1}}}
	require.NoError(t, repo.Update(ctx, upd))

	got, err := repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	require.NotNil(t, got.Number)
	assert.Equal(t, int64(7), *got.Number)
	assert.Equal(t, "ana@tienda.co", got.UserEmail)
	assert.Equal(t, "Luis", got.CustomerName)
	assert.Equal(t, int64(1), got.Items[0].Units)

	// La copia devuelta no comparte líneas con el almacén.
	got.Items[0].Units = 99
	again, _ := repo.GetByID(ctx, "f1")
	assert.Equal(t, int64(1), again.Items[0].Units)

	assert.ErrorIs(t, repo.Update(ctx, &entity.Invoice{ID: "nada"}), domain.ErrNotFound)
}
