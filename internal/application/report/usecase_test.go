package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/application/report"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/memory"
)

var bogota = time.FixedZone("COT", -5*3600)

type salesEnv struct {
	uc       *report.SalesReportUseCase
	recorder *inventory.RegisterMovementUseCase
	products *memory.ProductRepo
	clock    *time.Time
}

func newSalesEnv(t *testing.T) salesEnv {
	t.Helper()
	store := memory.NewStore()
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, bogota)
	store.SetClock(func() time.Time { return clock })
	products := memory.NewProductRepository(store)
	movs := memory.NewStockMovementRepository(store)
	return salesEnv{
		uc:       report.NewSalesReportUseCase(movs, products, bogota, nil),
		recorder: inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), products, movs, nil),
		products: products,
		clock:    &clock,
	}
}

func (e salesEnv) sell(t *testing.T, at time.Time, productID, saleType string, units, price int64, seller string) {
	t.Helper()
	*e.clock = at
	p := decimal.NewFromInt(price)
	_, err := e.recorder.Record(context.Background(), inventory.MovementInput{
		ProductID: productID, Type: entity.MovementTypeOut, Units: units, SaleType: saleType, PriceAtSale: &p, UserEmail: seller,
	})
	require.NoError(t, err)
}

func day(d, h int) time.Time { return time.Date(2025, 3, d, h, 0, 0, 0, bogota) }

func seedSales(t *testing.T) salesEnv {
	e := newSalesEnv(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, e.products.Create(ctx, &entity.Product{ID: id, Name: "Producto " + id, Quantity: 100}))
	}
	e.sell(t, day(1, 9), "a", "detal", 2, 1000, "ana@happy.co")
	e.sell(t, day(1, 23), "b", "mayor", 10, 500, "luis@happy.co")
	e.sell(t, day(2, 0), "a", "mayor", 5, 800, "ana@happy.co")
	e.sell(t, day(3, 18), "c", "", 1, 3000, "")
	*e.clock = day(3, 19)
	_, err := e.recorder.Record(ctx, inventory.MovementInput{ProductID: "a", Type: entity.MovementTypeIn, Units: 50})
	require.NoError(t, err)
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtros
// ──────────────────────────────────────────────────────────────────────────────

func TestQuery_SinFiltroSoloSalidas(t *testing.T) {
	e := seedSales(t)
	rep, err := e.uc.Query(context.Background(), report.SalesFilter{})
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Totals.Count)
	assert.Equal(t, int64(18), rep.Totals.Units)
	assert.Equal(t, "14000", rep.Totals.Total.String())
	assert.Equal(t, "2000", rep.Totals.Detal.String(), "la salida sin canal no suma a detal")
	assert.Equal(t, "9000", rep.Totals.Mayor.String())
	assert.Equal(t, []string{"ana@happy.co", "luis@happy.co"}, rep.Sellers)
	assert.Equal(t, "c", rep.Sales[0].ProductID)
}

func TestQuery_FiltroRoundTrip(t *testing.T) {
	e := seedSales(t)
	ctx := context.Background()
	all, err := e.uc.Query(ctx, report.SalesFilter{})
	require.NoError(t, err)

	filtros := []report.SalesFilter{
		{ProductID: "a"},
		{SaleType: "mayor"},
		{SaleType: "detal"},
		{SaleType: "all", Seller: "ana@happy.co"},
		{From: day(2, 0), To: day(3, 0)},
		{ProductID: "a", SaleType: "detal", From: day(1, 0), To: day(1, 0)},
	}
	for _, f := range filtros {
		rep, err := e.uc.Query(ctx, f)
		require.NoError(t, err)

		var want []report.Sale
		for _, s := range all.Sales {
			if matches(f, s) {
				want = append(want, s)
			}
		}
		assert.Equal(t, len(want), rep.Totals.Count, "%+v", f)
		wantTotals := report.Fold(want)
		assert.Equal(t, wantTotals.Units, rep.Totals.Units, "%+v", f)
		assert.Equal(t, wantTotals.Total.String(), rep.Totals.Total.String(), "%+v", f)
		assert.Equal(t, wantTotals.Detal.String(), rep.Totals.Detal.String(), "%+v", f)
		assert.Equal(t, wantTotals.Mayor.String(), rep.Totals.Mayor.String(), "%+v", f)
		assert.Equal(t, all.Sellers, rep.Sellers)
	}
}

func TestQuery_CanalCoincideConFiltro(t *testing.T) {
	e := seedSales(t)
	ctx := context.Background()
	all, err := e.uc.Query(ctx, report.SalesFilter{})
	require.NoError(t, err)

	for canal, got := range map[string]string{"detal": all.Totals.Detal.String(), "mayor": all.Totals.Mayor.String()} {
		rep, err := e.uc.Query(ctx, report.SalesFilter{SaleType: canal})
		require.NoError(t, err)
		assert.Equal(t, rep.Totals.Total.String(), got, canal)
	}
}

func matches(f report.SalesFilter, s report.Sale) bool {
	if f.ProductID != "" && s.ProductID != f.ProductID {
		return false
	}
	if f.SaleType != "" && f.SaleType != "all" && s.SaleType != f.SaleType {
		return false
	}
	if f.Seller != "" && s.Seller != f.Seller {
		return false
	}
	local := s.CreatedAt.In(bogota)
	if !f.From.IsZero() && local.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !local.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func TestQuery_DiaCompletoEnZonaLocal(t *testing.T) {
	e := seedSales(t)
	rep, err := e.uc.Query(context.Background(), report.SalesFilter{From: day(1, 0), To: day(1, 0)})
	require.NoError(t, err)

	require.Equal(t, 2, rep.Totals.Count)
	assert.Equal(t, "b", rep.Sales[0].ProductID)
	assert.Equal(t, "a", rep.Sales[1].ProductID)
}

func TestQuery_ExcluyeProductosEliminados(t *testing.T) {
	e := seedSales(t)
	require.NoError(t, e.products.Delete(context.Background(), "b"))

	rep, err := e.uc.Query(context.Background(), report.SalesFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Totals.Count)
	assert.Equal(t, []string{"ana@happy.co"}, rep.Sellers)
}

// ──────────────────────────────────────────────────────────────────────────────
// Parámetros y exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestParseSalesQuery(t *testing.T) {
	f, err := report.ParseSalesQuery(dto.SalesReportQuery{SaleType: " MAYOR ", From: "2025-03-01", To: "2025-03-02"}, bogota)
	require.NoError(t, err)
	assert.Equal(t, "mayor", f.SaleType)
	assert.True(t, f.From.Equal(day(1, 0)))
	assert.True(t, f.To.Equal(day(2, 0)))

	_, err = report.ParseSalesQuery(dto.SalesReportQuery{From: "01/03/2025"}, bogota)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = report.ParseSalesQuery(dto.SalesReportQuery{SaleType: "credito"}, bogota)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = report.ParseSalesQuery(dto.SalesReportQuery{From: "2025-03-05", To: "2025-03-01"}, bogota)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportRows_Etiquetas(t *testing.T) {
	e := seedSales(t)
	rep, err := e.uc.Query(context.Background(), report.SalesFilter{})
	require.NoError(t, err)

	rows := report.ExportRows(rep, bogota)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"2025-03-03 18:00", "Producto c", "Detal", "1", "3000", "3000", ""}, rows[0].Strings())
	assert.Equal(t, "Mayor", rows[1].SaleType)
	assert.Equal(t, "4000", rows[1].Total)
	assert.Len(t, report.ExportHeader, len(rows[0].Strings()))

	resp := report.ToResponse(rep)
	assert.Len(t, resp.Rows, 4)
	assert.Equal(t, 4, resp.Totals.Count)
}
