package stock

import (
	"context"
	"time"

	"github.com/abplast/estoque-api/internal/application/dto"
	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

// LedgerUseCase expone el libro de movimientos para las pantallas de
// historial. Solo lectura.
type LedgerUseCase struct {
	movementRepo repository.StockMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(movementRepo repository.StockMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{movementRepo: movementRepo}
}

// List lista movimientos, más recientes primero. direction vacío = ambas.
func (uc *LedgerUseCase) List(ctx context.Context, direction string, from, to *time.Time, page dto.PageRequest) ([]dto.MovementDTO, error) {
	page.DefaultPage()
	movements, err := uc.movementRepo.List(direction, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toMovementDTOs(movements), nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (uc *LedgerUseCase) ListByProduct(ctx context.Context, productID string, page dto.PageRequest) ([]dto.MovementDTO, error) {
	page.DefaultPage()
	movements, err := uc.movementRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toMovementDTOs(movements), nil
}

func toMovementDTOs(movements []*entity.StockMovement) []dto.MovementDTO {
	list := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		list = append(list, dto.MovementDTO{
			ID:         m.ID,
			ProductID:  m.ProductID,
			Direction:  m.Direction,
			Quantity:   m.Quantity,
			UnitCost:   m.UnitCost,
			Reason:     m.Reason,
			OccurredAt: m.OccurredAt,
			CreatedBy:  m.CreatedBy,
		})
	}
	return list
}
