package usecase

import (
	"github.com/abplast/estoque-api/internal/application/dto"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

// AuditUseCase expone la historia de auditoría. Solo lectura: las entradas
// las produce el motor de movimientos, nunca este caso de uso.
type AuditUseCase struct {
	repo repository.AuditLogRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditLogRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// List lista entradas de auditoría, más recientes primero.
func (uc *AuditUseCase) List(page dto.PageRequest) ([]dto.AuditLogDTO, error) {
	page.DefaultPage()
	logs, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.AuditLogDTO{
			ID:          l.ID,
			UserID:      l.UserID,
			Action:      l.Action,
			Description: l.Description,
			Details:     l.Details,
			CreatedAt:   l.CreatedAt,
		})
	}
	return out, nil
}
