package repository

import "github.com/abplast/estoque-api/internal/domain/entity"

// AuditLogRepository define el puerto de persistencia para la historia de
// auditoría. El motor de movimientos solo escribe; la lectura alimenta la
// pantalla de logs del operador.
type AuditLogRepository interface {
	Create(log *entity.AuditLog) error
	List(limit, offset int) ([]*entity.AuditLog, error)
}
