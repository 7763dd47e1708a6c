package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/stock/movements.
// direction = "in" requiere unit_cost; direction = "out" requiere reason.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id"`
	Direction string           `json:"direction"`
	Quantity  int64            `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

// MovementDTO asiento del libro de movimientos en respuestas.
type MovementDTO struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	Direction  string           `json:"direction"`
	Quantity   int64            `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
	CreatedBy  string           `json:"created_by"`
}

// MovementResponse respuesta de un movimiento aplicado: el asiento creado
// y la nueva cantidad del producto.
type MovementResponse struct {
	Movement    MovementDTO `json:"movement"`
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	NewQuantity int64       `json:"new_quantity"`
}

// LowStockProductDTO producto bajo el umbral dentro de un grupo de alerta.
type LowStockProductDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// LowStockGroupDTO grupo de alertas de stock bajo para un proveedor.
// SupplierID es "unassigned" para productos sin proveedor resoluble.
type LowStockGroupDTO struct {
	SupplierID   string               `json:"supplier_id"`
	SupplierName string               `json:"supplier_name"`
	Products     []LowStockProductDTO `json:"products"`
}
