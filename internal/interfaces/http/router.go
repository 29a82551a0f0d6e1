package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/induplast/produccion-api/internal/application/catalog"
	"github.com/induplast/produccion-api/internal/application/ledger"
	"github.com/induplast/produccion-api/internal/application/production"
	"github.com/induplast/produccion-api/internal/application/purchasing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MaterialUC *catalog.MaterialUseCase
	ProductUC  *catalog.ProductUseCase
	PartnerUC  *catalog.PartnerUseCase
	MovementUC *ledger.MovementUseCase
	OrderUC    *production.OrderUseCase
	PurchaseUC *purchasing.PurchaseUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas las rutas de negocio van detrás
// del Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Los borrados de catálogo y la reversa de movimientos quedan
	// restringidos a admin; el resto lo puede operar un supervisor.
	adminOnly := RequireRole("admin")
	adminOrSupervisor := RequireRole("admin", "supervisor")

	// Catálogo de materiales
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/low-stock", materialHandler.LowStock)
	materials.Get("/:id", materialHandler.Get)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", adminOnly, materialHandler.Delete)
	materials.Post("/:id/deactivate", adminOnly, materialHandler.Deactivate)

	// Catálogo de productos
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Post("/:id/deactivate", adminOnly, productHandler.Deactivate)

	// Proveedores y clientes
	partnerHandler := NewPartnerHandler(deps.PartnerUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", partnerHandler.CreateSupplier)
	suppliers.Get("/", partnerHandler.ListSuppliers)
	suppliers.Get("/:id", partnerHandler.GetSupplier)
	clients := protected.Group("/clients")
	clients.Post("/", partnerHandler.CreateClient)
	clients.Get("/", partnerHandler.ListClients)
	clients.Get("/:id", partnerHandler.GetClient)

	// Libro de stock
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.MovementUC)
	stock.Post("/movements", stockHandler.RegisterMovement)
	stock.Get("/movements", stockHandler.History)
	stock.Put("/movements/:id", adminOrSupervisor, stockHandler.EditMovement)
	stock.Post("/movements/:id/reverse", adminOnly, stockHandler.ReverseMovement)
	stock.Get("/:subject_type/:id", stockHandler.CurrentStock)
	stock.Get("/:subject_type/:id/reconcile", stockHandler.Reconcile)

	// Órdenes de producción
	prod := protected.Group("/production")
	productionHandler := NewProductionHandler(deps.OrderUC)
	prod.Post("/orders", productionHandler.Create)
	prod.Get("/orders", productionHandler.List)
	prod.Get("/orders/:id", productionHandler.Get)
	prod.Put("/orders/:id", productionHandler.Edit)
	prod.Delete("/orders/:id", adminOrSupervisor, productionHandler.Delete)
	prod.Post("/orders/:id/start", productionHandler.Start)
	prod.Post("/orders/:id/finish", productionHandler.Finish)
	prod.Post("/orders/:id/records", productionHandler.RegisterRecord)
	prod.Put("/records/:id", productionHandler.EditRecord)
	prod.Delete("/records/:id", productionHandler.DeleteRecord)

	// Órdenes de compra
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.Get)
	purchases.Delete("/:id", adminOrSupervisor, purchaseHandler.Delete)
	purchases.Put("/:id/lines", purchaseHandler.EditLines)
	purchases.Post("/:id/order", purchaseHandler.MarkOrdered)
	purchases.Post("/:id/transit", purchaseHandler.MarkInTransit)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Post("/:id/void", adminOrSupervisor, purchaseHandler.Void)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
}
