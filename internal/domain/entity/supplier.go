package entity

import "time"

// Supplier representa un proveedor (fornecedor) de productos.
type Supplier struct {
	ID           string
	Name         string
	ContactName  string
	ContactEmail string
	ContactPhone string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
