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

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/notifier"
	"github.com/jhoicas/almacen-api/internal/application/recommendation"
	"github.com/jhoicas/almacen-api/internal/application/reports"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/cache"
	"github.com/jhoicas/almacen-api/internal/infrastructure/embeddings"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/internal/interfaces/ws"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	scrapedRepo := postgres.NewScrapedProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Hub WebSocket: los casos de uso publican eventos post-commit a través de él
	hub := ws.NewHub(log)
	var sink notifier.Sink = hub

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo, warehouseRepo, movementRepo, sink)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, sink)
	recordMovementUC := inventory.NewRecordMovementUseCase(txRunner, productRepo, warehouseRepo, movementRepo, sink)
	transferUC := inventory.NewTransferUseCase(txRunner, productRepo, warehouseRepo, movementRepo, transferRepo, sink)

	// Reporte de valorización en PDF
	pdfGenerator := infrapdf.NewMarotoStockReportGenerator()
	stockValuationUC := reports.NewStockValuationUseCase(productRepo, warehouseRepo, movementRepo, pdfGenerator)

	// Motor de recomendaciones: embeddings por HTTP + caché de vectores en Redis.
	// Redis es opcional: sin REDIS_ADDR el motor trabaja solo con la caché en memoria.
	var recEngine *recommendation.Engine
	if cfg.Embeddings.BaseURL != "" {
		var store recommendation.VectorStore
		if cfg.Redis.Addr != "" {
			redisClient, err := cache.NewClient(ctx, cfg.Redis)
			if err != nil {
				log.Warn().Err(err).Msg("Redis no disponible; caché de vectores solo en memoria")
			} else {
				defer func() { _ = redisClient.Close() }()
				store = cache.NewRedisVectorStore(redisClient, 0)
			}
		}
		embedSvc := embeddings.NewHTTPService(cfg.Embeddings.BaseURL, cfg.Embeddings.APIKey, cfg.Embeddings.Model)
		recEngine = recommendation.NewEngine(scrapedRepo, embedSvc, store, log)
		go func() {
			if err := recEngine.Warm(context.Background()); err != nil {
				log.Warn().Err(err).Msg("precarga de vectores de recomendación")
			}
		}()
	} else {
		log.Info().Msg("EMBEDDINGS_BASE_URL no configurado; recomendaciones deshabilitadas")
	}

	wsHandler := ws.NewHandler(hub, cfg.JWT.Secret, log)

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
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ProductUC:       productUC,
		WarehouseUC:     warehouseUC,
		RecordMovement:  recordMovementUC,
		TransferUC:      transferUC,
		Recommendations: recEngine,
		StockValuation:  stockValuationUC,
		WSHandler:       wsHandler,
		JWTSecret:       cfg.JWT.Secret,
		Log:             log,
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
