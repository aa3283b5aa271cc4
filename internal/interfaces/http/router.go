package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/recommendation"
	"github.com/jhoicas/almacen-api/internal/application/reports"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/interfaces/ws"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ProductUC       *usecase.ProductUseCase
	WarehouseUC     *usecase.WarehouseUseCase
	RecordMovement  *inventory.RecordMovementUseCase
	TransferUC      *inventory.TransferUseCase
	Recommendations *recommendation.Engine
	StockValuation  *reports.StockValuationUseCase
	WSHandler       *ws.Handler
	JWTSecret       string
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// WebSocket (autenticado vía query param: los navegadores no mandan headers en el handshake)
	if deps.WSHandler != nil {
		app.Use("/ws", deps.WSHandler.Upgrade)
		app.Get("/ws", deps.WSHandler.Serve())
		api.Get("/ws/online", AuthMiddleware(deps.JWTSecret), RequireAdmin(), deps.WSHandler.Online)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	authGroup2 := protected.Group("/auth")
	authGroup2.Get("/me", authHandler.Me)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/stock", productHandler.Stock)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	// Stock: ledger de movimientos y consultas (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.RecordMovement)
	stock.Get("/", stockHandler.CurrentStock)
	stock.Post("/movements", stockHandler.RecordMovement)
	stock.Get("/movements", stockHandler.ListMovements)

	// Transfers (protegido)
	transferHandler := NewTransferHandler(deps.TransferUC)
	stock.Post("/transfers", transferHandler.Create)
	stock.Get("/transfers", transferHandler.List)
	stock.Get("/transfers/:id", transferHandler.GetByID)
	stock.Post("/transfers/:id/complete", transferHandler.Complete)
	stock.Post("/transfers/:id/cancel", transferHandler.Cancel)

	// Recommendations (protegido; regenerar solo admin)
	if deps.Recommendations != nil {
		recs := protected.Group("/recommendations")
		recHandler := NewRecommendationHandler(deps.Recommendations)
		recs.Get("/catalog", recHandler.Catalog)
		recs.Get("/", recHandler.ByName)
		recs.Post("/regenerate", RequireAdmin(), recHandler.Regenerate)
		recs.Get("/:id", recHandler.ByID)
	}

	// Reports (protegido)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.StockValuation)
	reportsGroup.Get("/stock-valuation", reportHandler.StockValuationPDF)
}
