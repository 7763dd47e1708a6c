package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/abplast/estoque-api/internal/application/stock"
	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

var (
	_ repository.AuditLogRepository = (*AuditLogRepo)(nil)
	_ stock.AuditRecorder           = (*AuditLogRepo)(nil)
)

// AuditLogRepo persiste la historia de auditoría en PostgreSQL. Implementa
// también el puerto AuditRecorder del motor de movimientos.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Record implementa stock.AuditRecorder delegando en Create. Se invoca
// fuera de la transacción del movimiento: un fallo aquí nunca lo revierte.
func (r *AuditLogRepo) Record(ctx context.Context, log *entity.AuditLog) error {
	return r.Create(log)
}

// Create persiste una entrada de auditoría. Details se guarda como JSONB.
func (r *AuditLogRepo) Create(log *entity.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	details, err := json.Marshal(log.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	query := `
		INSERT INTO audit_logs (id, user_id, action, description, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.q.Exec(context.Background(), query,
		log.ID, log.UserID, log.Action, log.Description, details, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List lista entradas de auditoría, más recientes primero.
func (r *AuditLogRepo) List(limit, offset int) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, user_id, action, description, details, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var details []byte
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Description, &details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &l.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
