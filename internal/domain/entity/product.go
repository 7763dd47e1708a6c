package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de estoque.
// Quantity es la cantidad en existencia; solo el motor de movimientos
// (application/stock) puede modificarla y nunca queda por debajo de cero.
type Product struct {
	ID          string
	Name        string
	Barcode     string // código de barras, único cuando no es vacío
	Description string
	Price       decimal.Decimal // precio de venta, nunca negativo
	Quantity    int64
	CategoryID  string
	SupplierID  string // vacío si el producto no tiene proveedor asignado
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
