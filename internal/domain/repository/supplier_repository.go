package repository

import "github.com/abplast/estoque-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
	Delete(id string) error
}
