package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/abplast/estoque-api/internal/domain"
	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(name, contactName, contactEmail, contactPhone string) (*entity.Supplier, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:           uuid.New().String(),
		Name:         name,
		ContactName:  contactName,
		ContactEmail: contactEmail,
		ContactPhone: contactPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(id string) (*entity.Supplier, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	return supplier, nil
}

// List lista proveedores con paginación.
func (uc *SupplierUseCase) List(limit, offset int) ([]*entity.Supplier, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.repo.List(limit, offset)
}
