package stock

import (
	"context"

	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación de existencia y
// el asiento del libro sean una unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// AuditRecorder recibe la descripción estructurada de cada intento de
// movimiento, exitoso o fallido. El motor no persiste ni muestra la
// historia; solo produce la entrada completa. Se invoca fuera de la
// transacción para no retener el bloqueo de fila durante llamadas externas.
type AuditRecorder interface {
	Record(ctx context.Context, log *entity.AuditLog) error
}
