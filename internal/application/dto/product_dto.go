package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products. La cantidad inicial es
// siempre 0: la existencia solo cambia vía movimientos.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	SupplierID  string          `json:"supplier_id,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. No incluye cantidad.
type UpdateProductRequest struct {
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	SupplierID  string          `json:"supplier_id,omitempty"`
}

// ProductDTO producto en respuestas.
type ProductDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	CategoryID  string          `json:"category_id"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
