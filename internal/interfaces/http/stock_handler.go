package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abplast/estoque-api/internal/application/dto"
	"github.com/abplast/estoque-api/internal/application/stock"
	"github.com/abplast/estoque-api/internal/domain"
)

// StockHandler maneja las peticiones HTTP de movimientos y alertas (protegido).
type StockHandler struct {
	register  *stock.RegisterMovementUseCase
	ledger    *stock.LedgerUseCase
	lowStock  *stock.LowStockUseCase
	threshold int64 // umbral configurado; 0 = por defecto del caso de uso
}

// NewStockHandler construye el handler.
func NewStockHandler(register *stock.RegisterMovementUseCase, ledger *stock.LedgerUseCase, lowStock *stock.LowStockUseCase, threshold int64) *StockHandler {
	return &StockHandler{register: register, ledger: ledger, lowStock: lowStock, threshold: threshold}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de estoque
// @Description  Entrada ("in", requiere unit_cost > 0) o salida ("out", requiere
//
//	reason del catálogo: Venda, Ajuste, Perda, Outro). La existencia
//	del producto solo cambia por este camino.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, direction, quantity, unit_cost (entradas), reason (salidas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	result, err := h.register.RegisterMovement(c.Context(), stock.MovementInput{
		ProductID: in.ProductID,
		UserID:    userID,
		Direction: in.Direction,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reason:    in.Reason,
	})
	if err != nil {
		return movementError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		Movement: dto.MovementDTO{
			ID:         result.Movement.ID,
			ProductID:  result.Movement.ProductID,
			Direction:  result.Movement.Direction,
			Quantity:   result.Movement.Quantity,
			UnitCost:   result.Movement.UnitCost,
			Reason:     result.Movement.Reason,
			OccurredAt: result.Movement.OccurredAt,
			CreatedBy:  result.Movement.CreatedBy,
		},
		ProductID:   result.Product.ID,
		ProductName: result.Product.Name,
		NewQuantity: result.Product.Quantity,
	})
}

// movementError traduce la taxonomía de errores del motor de movimientos a
// códigos HTTP: validación 400, producto inexistente 404, stock insuficiente
// 409 con solicitado/disponible en el cuerpo.
func movementError(c *fiber.Ctx, err error) error {
	var invalid *domain.InvalidMovementError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MOVEMENT", Message: invalid.Detail})
	}
	var notFound *domain.ProductNotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_NOT_FOUND", Message: err.Error()})
	}
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":       "INSUFFICIENT_STOCK",
			"message":    insufficient.Error(),
			"product_id": insufficient.ProductID,
			"requested":  insufficient.Requested,
			"available":  insufficient.Available,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        direction  query  string  false  "in | out (vacío = ambas)"
// @Param        from       query  string  false  "RFC3339, inclusive"
// @Param        to         query  string  false  "RFC3339, inclusive"
// @Param        limit      query  int     false  "por defecto 20"
// @Param        offset     query  int     false  "por defecto 0"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	direction := c.Query("direction")
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC3339"})
	}

	list, err := h.ledger.List(c.Context(), direction, from, to, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": list})
}

// ListProductMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "por defecto 20"
// @Param        offset  query  int     false  "por defecto 0"
// @Success      200  {array}  dto.MovementDTO
// @Router       /api/products/{id}/movements [get]
func (h *StockHandler) ListProductMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.ledger.ListByProduct(c.Context(), c.Params("id"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": list})
}

// LowStockReport godoc
// @Summary      Alertas de stock bajo agrupadas por proveedor
// @Description  Productos con existencia bajo el umbral, agrupados por
//
//	proveedor. Los productos sin proveedor resoluble caen en el
//	grupo "unassigned"; nunca se descartan.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "umbral (por defecto 5)"
// @Success      200  {array}  dto.LowStockGroupDTO
// @Router       /api/stock/low-stock [get]
func (h *StockHandler) LowStockReport(c *fiber.Ctx) error {
	threshold := int64(c.QueryInt("threshold"))
	if threshold <= 0 {
		threshold = h.threshold
	}
	groups, err := h.lowStock.ComputeAlerts(c.Context(), threshold)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"groups": groups})
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
