package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abplast/estoque-api/internal/application/auth"
	"github.com/abplast/estoque-api/internal/application/stock"
	"github.com/abplast/estoque-api/internal/application/usecase"
	"github.com/abplast/estoque-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC         *usecase.ProductUseCase
	SupplierUC        *usecase.SupplierUseCase
	CategoryUC        *usecase.CategoryUseCase
	AuditUC           *usecase.AuditUseCase
	RegisterMovement  *stock.RegisterMovementUseCase
	Ledger            *stock.LedgerUseCase
	LowStock          *stock.LowStockUseCase
	AuthUC            *auth.AuthUseCase
	JWTSecret         string
	LowStockThreshold int64
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock: movimientos y alertas (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.RegisterMovement, deps.Ledger, deps.LowStock, deps.LowStockThreshold)
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/low-stock", stockHandler.LowStockReport)
	products.Get("/:id/movements", stockHandler.ListProductMovements)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)

	// Audit logs (protegido, solo admin)
	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audit-logs", RequireRole(entity.RoleAdmin), auditHandler.List)
}
