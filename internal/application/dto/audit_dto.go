package dto

import "time"

// AuditLogDTO entrada de auditoría en respuestas.
type AuditLogDTO struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
