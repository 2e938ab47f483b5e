package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
type InvoiceRequest struct {
	CustomerName     string               `json:"customer_name"`
	CustomerDocument string               `json:"customer_document"`
	CustomerEmail    string               `json:"customer_email"`
	Notes            string               `json:"notes"`
	Items            []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura. sale_type vacío equivale a detal.
type InvoiceItemRequest struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SaleType    string          `json:"sale_type"`
	Price       decimal.Decimal `json:"price"`
	Units       int64           `json:"units"`
}

// InvoiceItemResponse línea de factura en respuestas.
type InvoiceItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SaleType    string          `json:"sale_type"`
	Price       decimal.Decimal `json:"price"`
	Units       int64           `json:"units"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse factura con sus líneas.
type InvoiceResponse struct {
	ID               string                `json:"id"`
	Number           *int64                `json:"number"`
	CustomerName     string                `json:"customer_name"`
	CustomerDocument string                `json:"customer_document"`
	CustomerEmail    string                `json:"customer_email,omitempty"`
	Items            []InvoiceItemResponse `json:"items"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Total            decimal.Decimal       `json:"total"`
	Notes            string                `json:"notes,omitempty"`
	UserEmail        string                `json:"user_email,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SendInvoiceRequest body para POST /api/invoices/:id/send. To vacío usa el correo del cliente.
type SendInvoiceRequest struct {
	To string `json:"to"`
}
