package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// DateLayout formato de fecha de los filtros (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// SaleTypeAll valor de filtro equivalente a "sin filtro de canal".
const SaleTypeAll = "all"

// SalesFilter filtros del reporte de ventas. Fechas zero no filtran; From y To son días completos inclusivos.
type SalesFilter struct {
	ProductID string
	SaleType  string // "", all, detal, mayor
	Seller    string
	From      time.Time
	To        time.Time
}

// IsEmpty indica si ningún filtro está activo.
func (f SalesFilter) IsEmpty() bool {
	return f.ProductID == "" && (f.SaleType == "" || f.SaleType == SaleTypeAll) && f.Seller == "" &&
		f.From.IsZero() && f.To.IsZero()
}

// ParseSalesQuery valida los parámetros del query string y arma el filtro en la zona horaria loc.
func ParseSalesQuery(q dto.SalesReportQuery, loc *time.Location) (SalesFilter, error) {
	f := SalesFilter{
		ProductID: strings.TrimSpace(q.ProductID),
		SaleType:  strings.ToLower(strings.TrimSpace(q.SaleType)),
		Seller:    strings.TrimSpace(q.Seller),
	}
	if f.SaleType != "" && f.SaleType != SaleTypeAll && !entity.ValidSaleType(f.SaleType) {
		return SalesFilter{}, fmt.Errorf("%w: sale_type %q", domain.ErrInvalidInput, q.SaleType)
	}
	var err error
	if f.From, err = parseDay(q.From, loc); err != nil {
		return SalesFilter{}, err
	}
	if f.To, err = parseDay(q.To, loc); err != nil {
		return SalesFilter{}, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return SalesFilter{}, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrInvalidInput)
	}
	return f, nil
}

func parseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, use YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// startOfDay medianoche de t en loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
