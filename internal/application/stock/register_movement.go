package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/abplast/estoque-api/internal/domain"
	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

// RegisterMovementUseCase es el único camino autorizado para cambiar la
// existencia de un producto. Registra entradas y salidas de forma
// transaccional: bloqueo de fila (SELECT FOR UPDATE), verificación de
// disponibilidad, actualización de cantidad y asiento en el libro, todo
// con Commit/Rollback como unidad.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	audit    AuditRecorder
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, audit AuditRecorder) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, audit: audit}
}

// MovementInput entrada para registrar un movimiento.
// Para entradas (DirectionIn): UnitCost obligatorio y > 0.
// Para salidas (DirectionOut): Reason obligatorio, del catálogo cerrado.
type MovementInput struct {
	ProductID string
	UserID    string
	Direction string
	Quantity  int64
	UnitCost  *decimal.Decimal
	Reason    string
}

// MovementResult resultado de un movimiento aplicado: el producto con su
// nueva cantidad y el asiento creado.
type MovementResult struct {
	Product  *entity.Product
	Movement *entity.StockMovement
}

// RegisterMovement valida la solicitud, aplica la mutación dentro de una
// transacción y notifica al auditor después del Commit/Rollback. Si falla
// con cualquier error de la taxonomía, ningún estado cambia.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if input.UserID == "" {
		input.UserID = entity.SystemUserID
	}

	if err := validateInput(input); err != nil {
		uc.recordFailure(ctx, input, err)
		return nil, err
	}

	now := time.Now()
	var result MovementResult

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		// Bloquea la fila del producto: dos movimientos concurrentes sobre
		// el mismo producto se serializan aquí; productos distintos no se
		// bloquean entre sí.
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.ProductNotFoundError{ProductID: input.ProductID}
		}

		newQty := product.Quantity + input.Quantity
		if input.Direction == entity.DirectionOut {
			if product.Quantity < input.Quantity {
				return &domain.InsufficientStockError{
					ProductID: input.ProductID,
					Requested: input.Quantity,
					Available: product.Quantity,
				}
			}
			newQty = product.Quantity - input.Quantity
		}

		if err := productRepo.UpdateQuantity(product.ID, newQty); err != nil {
			return err
		}

		movement := &entity.StockMovement{
			ID:         uuid.New().String(),
			ProductID:  product.ID,
			Direction:  input.Direction,
			Quantity:   input.Quantity,
			UnitCost:   input.UnitCost,
			Reason:     input.Reason,
			OccurredAt: now,
			CreatedAt:  now,
			CreatedBy:  input.UserID,
		}
		if err := movementRepo.Create(movement); err != nil {
			return err
		}

		updated := *product
		updated.Quantity = newQty
		updated.UpdatedAt = now
		result = MovementResult{Product: &updated, Movement: movement}
		return nil
	})
	if err != nil {
		uc.recordFailure(ctx, input, err)
		return nil, err
	}

	uc.recordSuccess(ctx, input, &result)
	return &result, nil
}

// validateInput aplica las reglas que no requieren estado: cantidad
// positiva, atributos obligatorios por dirección, motivo dentro del catálogo.
func validateInput(input MovementInput) error {
	if input.Quantity <= 0 {
		return &domain.InvalidMovementError{Detail: fmt.Sprintf("la cantidad debe ser positiva, recibido %d", input.Quantity)}
	}
	switch input.Direction {
	case entity.DirectionIn:
		if input.UnitCost == nil || !input.UnitCost.GreaterThan(decimal.Zero) {
			return &domain.InvalidMovementError{Detail: "las entradas requieren costo unitario mayor que cero"}
		}
	case entity.DirectionOut:
		if input.Reason == "" {
			return &domain.InvalidMovementError{Detail: "las salidas requieren motivo"}
		}
		if !entity.ValidReason(input.Reason) {
			return &domain.InvalidMovementError{Detail: fmt.Sprintf("motivo %q fuera del catálogo", input.Reason)}
		}
	default:
		return &domain.InvalidMovementError{Detail: fmt.Sprintf("dirección %q desconocida", input.Direction)}
	}
	return nil
}

// recordSuccess notifica al auditor un movimiento aplicado. Se ejecuta
// después del Commit; un fallo del auditor no revierte el movimiento.
func (uc *RegisterMovementUseCase) recordSuccess(ctx context.Context, input MovementInput, res *MovementResult) {
	details := map[string]any{
		"product_id":   res.Product.ID,
		"product_name": res.Product.Name,
		"direction":    input.Direction,
		"quantity":     input.Quantity,
		"delta":        res.Movement.SignedQuantity(),
		"old_quantity": res.Product.Quantity - res.Movement.SignedQuantity(),
		"new_quantity": res.Product.Quantity,
		"movement_id":  res.Movement.ID,
	}
	if input.UnitCost != nil {
		details["unit_cost"] = input.UnitCost.String()
	}
	if input.Reason != "" {
		details["reason"] = input.Reason
	}
	uc.record(ctx, &entity.AuditLog{
		UserID: input.UserID,
		Action: entity.AuditActionMovementApplied,
		Description: fmt.Sprintf("movimiento %s de %d unidades sobre %s (%d → %d)",
			input.Direction, input.Quantity, res.Product.Name,
			res.Product.Quantity-res.Movement.SignedQuantity(), res.Product.Quantity),
		Details: details,
	})
}

// recordFailure notifica al auditor un intento rechazado, con los
// parámetros solicitados, para que los fallos también sean auditables.
func (uc *RegisterMovementUseCase) recordFailure(ctx context.Context, input MovementInput, cause error) {
	details := map[string]any{
		"product_id": input.ProductID,
		"direction":  input.Direction,
		"quantity":   input.Quantity,
		"error":      cause.Error(),
	}
	if input.UnitCost != nil {
		details["unit_cost"] = input.UnitCost.String()
	}
	if input.Reason != "" {
		details["reason"] = input.Reason
	}
	uc.record(ctx, &entity.AuditLog{
		UserID:      input.UserID,
		Action:      entity.AuditActionMovementFailed,
		Description: fmt.Sprintf("movimiento %s rechazado sobre producto %s: %v", input.Direction, input.ProductID, cause),
		Details:     details,
	})
}

func (uc *RegisterMovementUseCase) record(ctx context.Context, logEntry *entity.AuditLog) {
	if uc.audit == nil {
		return
	}
	logEntry.CreatedAt = time.Now()
	if err := uc.audit.Record(ctx, logEntry); err != nil {
		log.Warn().Err(err).Str("action", logEntry.Action).Msg("no se pudo registrar auditoría")
	}
}
