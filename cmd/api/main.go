package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Validade-api/internal/application/confirmation"
	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/application/projection"
	"github.com/jhoicas/Validade-api/internal/infrastructure/memory"
	"github.com/jhoicas/Validade-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Validade-api/internal/interfaces/http"
	"github.com/jhoicas/Validade-api/pkg/config"
	"github.com/jhoicas/Validade-api/pkg/logger"
)

// store une los dos puertos que implementan los backends del ledger.
type store interface {
	ledger.TxRunner
	projection.SnapshotRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var backend store
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: el ledger no se persiste entre reinicios")
		backend = memory.New()
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		backend = postgres.NewTxRunner(pool)
	}

	ledgerUC := ledger.NewLedgerUseCase(backend, log)
	projectionUC := projection.NewProjectionUseCase(backend, time.Now)
	sessions := confirmation.NewSessionStore(cfg.Session.MaxActive, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	stockControl := confirmation.NewStockControlService(ledgerUC, projectionUC, sessions, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	httpRouter.UseMiddleware(app, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Validade API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:       ledgerUC,
		Projection:   projectionUC,
		StockControl: stockControl,
		JWTSecret:    cfg.JWT.Secret,
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
