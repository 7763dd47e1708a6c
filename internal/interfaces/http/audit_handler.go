package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abplast/estoque-api/internal/application/dto"
	"github.com/abplast/estoque-api/internal/application/usecase"
)

// AuditHandler expone la historia de auditoría (protegido, solo admin).
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Historia de auditoría
// @Description  Movimientos aplicados y rechazados, más recientes primero.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "por defecto 20"
// @Param        offset  query  int  false  "por defecto 0"
// @Success      200  {array}   dto.AuditLogDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.uc.List(page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "logs": list})
}
