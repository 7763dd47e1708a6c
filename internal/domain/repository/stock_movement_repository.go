package repository

import (
	"time"

	"github.com/abplast/estoque-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos. Solo hay Create y lecturas: el libro es append-only.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// List lista movimientos, opcionalmente filtrados por dirección
	// (vacío = ambas) y rango de fechas, más recientes primero.
	List(direction string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
}
