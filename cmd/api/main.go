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

	"github.com/induplast/produccion-api/internal/application/catalog"
	"github.com/induplast/produccion-api/internal/application/ledger"
	"github.com/induplast/produccion-api/internal/application/production"
	"github.com/induplast/produccion-api/internal/application/purchasing"
	"github.com/induplast/produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/induplast/produccion-api/internal/interfaces/http"
	"github.com/induplast/produccion-api/pkg/config"
	"github.com/induplast/produccion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	// Repositorios atados al pool: sirven para las lecturas fuera de
	// transacción. Las escrituras pasan por el TxRunner, que construye
	// sus propios repositorios atados a la tx.
	materialRepo := postgres.NewMaterialRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewProductionOrderRepository(pool)
	requirementRepo := postgres.NewMaterialRequirementRepository(pool)
	recordRepo := postgres.NewProductionRecordRepository(pool)
	purchaseRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	materialUC := catalog.NewMaterialUseCase(materialRepo, movementRepo)
	productUC := catalog.NewProductUseCase(productRepo)
	partnerUC := catalog.NewPartnerUseCase(supplierRepo, clientRepo)
	movementUC := ledger.NewMovementUseCase(txRunner, movementRepo, materialRepo, productRepo)
	orderUC := production.NewOrderUseCase(txRunner, orderRepo, recordRepo, requirementRepo, productRepo, clientRepo, materialRepo)
	purchaseUC := purchasing.NewPurchaseUseCase(txRunner, purchaseRepo, supplierRepo, materialRepo)

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
		Title:    "Producción API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		MaterialUC: materialUC,
		ProductUC:  productUC,
		PartnerUC:  partnerUC,
		MovementUC: movementUC,
		OrderUC:    orderUC,
		PurchaseUC: purchaseUC,
		JWTSecret:  cfg.JWT.Secret,
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
