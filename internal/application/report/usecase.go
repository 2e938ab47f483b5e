package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
)

// DefaultTimezone zona horaria de los límites de día cuando no se configura otra.
const DefaultTimezone = "America/Bogota"

// Sale venta (movimiento de salida) con el nombre de su producto.
type Sale struct {
	MovementID  string
	CreatedAt   time.Time
	ProductID   string
	ProductName string
	SaleType    string // detal, mayor; vacío en salidas manuales sin canal
	Units       int64
	Price       decimal.Decimal
	Total       decimal.Decimal
	Seller      string
	InvoiceID   string
}

// Totals agregados del conjunto filtrado.
type Totals struct {
	Count int
	Units int64
	Total decimal.Decimal
	Detal decimal.Decimal
	Mayor decimal.Decimal
}

// SalesReport resultado del reporte: filas (más recientes primero), totales y vendedores disponibles.
type SalesReport struct {
	Sales   []Sale
	Totals  Totals
	Sellers []string
}

// SalesReportUseCase arma el reporte de ventas a partir del kardex.
type SalesReportUseCase struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
	loc         *time.Location
	log         *logger.Logger
}

// NewSalesReportUseCase construye el caso de uso. loc nil usa America/Bogota (o UTC si la zona no está disponible).
func NewSalesReportUseCase(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	loc *time.Location,
	log *logger.Logger,
) *SalesReportUseCase {
	if loc == nil {
		loc = LoadLocation(DefaultTimezone)
	}
	return &SalesReportUseCase{
		movRepo:     movRepo,
		productRepo: productRepo,
		loc:         loc,
		log:         logger.OrNop(log).Named("report"),
	}
}

// LoadLocation carga la zona horaria name; si no existe devuelve UTC.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Location zona horaria usada para los límites de día.
func (uc *SalesReportUseCase) Location() *time.Location { return uc.loc }

// Query devuelve las salidas que cumplen el filtro cuyo producto aún existe, con sus totales.
func (uc *SalesReportUseCase) Query(ctx context.Context, f SalesFilter) (*SalesReport, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar productos: %w", err)
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	base := repository.MovementFilter{Type: entity.MovementTypeOut}
	all, err := uc.sales(ctx, base, names)
	if err != nil {
		return nil, err
	}

	sales := all
	if !f.IsEmpty() {
		if sales, err = uc.sales(ctx, uc.storageFilter(f), names); err != nil {
			return nil, err
		}
	}

	rep := &SalesReport{Sales: sales, Totals: Fold(sales), Sellers: sellers(all)}
	uc.log.Debug().Int("rows", rep.Totals.Count).Str("total", rep.Totals.Total.String()).Msg("reporte de ventas")
	return rep, nil
}

func (uc *SalesReportUseCase) storageFilter(f SalesFilter) repository.MovementFilter {
	mf := repository.MovementFilter{
		Type:      entity.MovementTypeOut,
		ProductID: f.ProductID,
		UserEmail: f.Seller,
	}
	if f.SaleType != SaleTypeAll {
		mf.SaleType = f.SaleType
	}
	if !f.From.IsZero() {
		from := startOfDay(f.From, uc.loc)
		mf.From = &from
	}
	if !f.To.IsZero() {
		to := startOfDay(f.To, uc.loc).AddDate(0, 0, 1)
		mf.To = &to
	}
	return mf
}

func (uc *SalesReportUseCase) sales(ctx context.Context, mf repository.MovementFilter, names map[string]string) ([]Sale, error) {
	movs, err := uc.movRepo.List(ctx, mf)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar movimientos: %w", err)
	}
	out := make([]Sale, 0, len(movs))
	for _, m := range movs {
		name, ok := names[m.ProductID]
		if !ok {
			continue
		}
		s := Sale{
			MovementID:  m.ID,
			CreatedAt:   m.CreatedAt,
			ProductID:   m.ProductID,
			ProductName: name,
			Units:       m.Units,
			Total:       m.Total,
		}
		if m.SaleType != nil {
			s.SaleType = *m.SaleType
		}
		if m.PriceAtSale != nil {
			s.Price = *m.PriceAtSale
		}
		if m.UserEmail != nil {
			s.Seller = *m.UserEmail
		}
		if m.InvoiceID != nil {
			s.InvoiceID = *m.InvoiceID
		}
		out = append(out, s)
	}
	return out, nil
}

// Fold acumula conteo, unidades, total y monto por canal. Las salidas sin canal suman al total
// pero a ningún canal, igual que el filtro sale_type.
func Fold(sales []Sale) Totals {
	t := Totals{Total: decimal.Zero, Detal: decimal.Zero, Mayor: decimal.Zero}
	for _, s := range sales {
		t.Count++
		t.Units += s.Units
		t.Total = t.Total.Add(s.Total)
		switch s.SaleType {
		case entity.SaleTypeDetal:
			t.Detal = t.Detal.Add(s.Total)
		case entity.SaleTypeMayor:
			t.Mayor = t.Mayor.Add(s.Total)
		}
	}
	return t
}

func sellers(sales []Sale) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, s := range sales {
		if s.Seller == "" {
			continue
		}
		if _, ok := seen[s.Seller]; ok {
			continue
		}
		seen[s.Seller] = struct{}{}
		out = append(out, s.Seller)
	}
	sort.Strings(out)
	return out
}
