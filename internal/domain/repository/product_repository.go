package repository

import "github.com/abplast/estoque-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product.
// Quantity solo se modifica vía UpdateQuantity dentro de la transacción
// del motor de movimientos; Update nunca la toca.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateQuantity fija la cantidad en existencia (usado por el motor de movimientos).
	UpdateQuantity(productID string, quantity int64) error
	List(limit, offset int) ([]*entity.Product, error)
	// ListBelowQuantity devuelve los productos con Quantity < threshold.
	ListBelowQuantity(threshold int64) ([]*entity.Product, error)
	Delete(id string) error
}
