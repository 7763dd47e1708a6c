package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abplast/estoque-api/internal/application/dto"
	"github.com/abplast/estoque-api/internal/domain"
	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La cantidad en existencia
// se maneja exclusivamente vía movimientos: Create la fija en 0 y Update no
// la toca.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con cantidad 0.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductDTO, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Barcode:     in.Barcode,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    0,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductDTO, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	return toProductDTO(product), nil
}

// Update actualiza los datos descriptivos de un producto. Nunca modifica la cantidad.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductDTO, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	if in.Name == "" || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product.Name = in.Name
	product.Barcode = in.Barcode
	product.Description = in.Description
	product.Price = in.Price
	product.CategoryID = in.CategoryID
	product.SupplierID = in.SupplierID
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(page dto.PageRequest) ([]dto.ProductDTO, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductDTO(p))
	}
	return out, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.ProductNotFoundError{ProductID: id}
	}
	return uc.repo.Delete(id)
}

func toProductDTO(p *entity.Product) *dto.ProductDTO {
	return &dto.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Barcode:     p.Barcode,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
