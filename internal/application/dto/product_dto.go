package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Quantity y Cost iniciales se registran como una entrada de inventario.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int64           `json:"quantity"`
	Supplier    string          `json:"supplier"`
	Description string          `json:"description"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni Quantity).
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Supplier    *string          `json:"supplier"`
	Description *string          `json:"description"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    int64           `json:"quantity"`
	Supplier    string          `json:"supplier"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url,omitempty"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductImageResponse resultado de subir imagen. ImageUpdated=false indica que el producto
// quedó guardado sin cambio de imagen porque la subida falló.
type ProductImageResponse struct {
	Product      ProductResponse `json:"product"`
	ImageUpdated bool            `json:"image_updated"`
}
