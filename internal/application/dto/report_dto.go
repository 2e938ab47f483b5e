package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportQuery filtros del reporte de ventas (query string).
// from/to en formato YYYY-MM-DD, inclusivos por día.
type SalesReportQuery struct {
	ProductID string `query:"product_id"`
	SaleType  string `query:"sale_type"` // all, detal, mayor
	Seller    string `query:"seller"`
	From      string `query:"from"`
	To        string `query:"to"`
}

// SaleRowResponse fila del reporte de ventas.
type SaleRowResponse struct {
	CreatedAt   time.Time       `json:"created_at"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SaleType    string          `json:"sale_type"`
	Units       int64           `json:"units"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Seller      string          `json:"seller"`
}

// SalesTotalsResponse agregados del reporte.
type SalesTotalsResponse struct {
	Count int             `json:"count"`
	Units int64           `json:"units"`
	Total decimal.Decimal `json:"total"`
	Detal decimal.Decimal `json:"detal"`
	Mayor decimal.Decimal `json:"mayor"`
}

// SalesReportResponse reporte de ventas filtrado.
type SalesReportResponse struct {
	Rows    []SaleRowResponse   `json:"rows"`
	Totals  SalesTotalsResponse `json:"totals"`
	Sellers []string            `json:"sellers"`
}
