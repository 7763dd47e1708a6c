package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/abplast/estoque-api/internal/application/auth"
	"github.com/abplast/estoque-api/internal/application/stock"
	"github.com/abplast/estoque-api/internal/application/usecase"
	"github.com/abplast/estoque-api/internal/infrastructure/postgres"
	httpRouter "github.com/abplast/estoque-api/internal/interfaces/http"
	"github.com/abplast/estoque-api/pkg/config"
	"github.com/abplast/estoque-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	registerMovementUC := stock.NewRegisterMovementUseCase(txRunner, auditRepo)
	ledgerUC := stock.NewLedgerUseCase(movementRepo)
	lowStockUC := stock.NewLowStockUseCase(productRepo, supplierRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:         productUC,
		SupplierUC:        supplierUC,
		CategoryUC:        categoryUC,
		AuditUC:           auditUC,
		RegisterMovement:  registerMovementUC,
		Ledger:            ledgerUC,
		LowStock:          lowStockUC,
		AuthUC:            authUC,
		JWTSecret:         cfg.JWT.Secret,
		LowStockThreshold: cfg.Stock.LowStockThreshold,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
