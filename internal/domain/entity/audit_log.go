package entity

import "time"

// Acciones auditadas por el motor de movimientos.
const (
	AuditActionMovementApplied = "stock.movement.applied"
	AuditActionMovementFailed  = "stock.movement.failed"
)

// AuditLog describe un intento de mutación (exitoso o fallido) para la
// historia visible al operador. Details lleva el contexto estructurado
// (producto, delta, cantidades antes/después, atributos del movimiento).
type AuditLog struct {
	ID          string
	UserID      string
	Action      string
	Description string
	Details     map[string]any
	CreatedAt   time.Time
}
