package repository

import "github.com/abplast/estoque-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List(limit, offset int) ([]*entity.Category, error)
	Delete(id string) error
}
