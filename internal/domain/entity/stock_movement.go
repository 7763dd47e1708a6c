package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de movimiento de estoque.
const (
	DirectionIn  = "in"  // entrada
	DirectionOut = "out" // saída
)

// Motivos válidos para salidas (catálogo cerrado, heredado del negocio).
const (
	ReasonVenda  = "Venda"
	ReasonAjuste = "Ajuste"
	ReasonPerda  = "Perda"
	ReasonOutro  = "Outro"
)

// ValidReason reporta si el motivo pertenece al catálogo de salidas.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonVenda, ReasonAjuste, ReasonPerda, ReasonOutro:
		return true
	}
	return false
}

// StockMovement es un asiento del libro de movimientos: registra una entrada
// o salida contra un producto. El libro es append-only; un asiento nunca se
// actualiza ni se borra. Quantity es siempre la magnitud (positiva); la
// dirección indica el signo aplicado a la existencia del producto.
type StockMovement struct {
	ID        string
	ProductID string
	Direction string // DirectionIn | DirectionOut
	Quantity  int64  // magnitud, > 0
	// UnitCost solo aplica a entradas (obligatorio, > 0).
	UnitCost *decimal.Decimal
	// Reason solo aplica a salidas (obligatorio, catálogo cerrado).
	Reason     string
	OccurredAt time.Time
	CreatedAt  time.Time
	CreatedBy  string // UserID que ejecutó el movimiento
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (m *StockMovement) SignedQuantity() int64 {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}
