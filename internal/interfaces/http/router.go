package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Validade-api/internal/application/confirmation"
	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/application/projection"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger       *ledger.LedgerUseCase
	Projection   *projection.ProjectionUseCase
	StockControl *confirmation.StockControlService
	JWTSecret    string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	batchHandler := NewBatchHandler(deps.Ledger, deps.Projection)
	stockHandler := NewStockHandler(deps.StockControl)
	reportHandler := NewReportHandler(deps.Projection)

	batches := api.Group("/batches")
	batches.Post("/", batchHandler.Register)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Get("/:id/movements", batchHandler.Movements)
	batches.Post("/:id/quantity", stockHandler.Propose)

	stock := api.Group("/stock")
	stock.Get("/pending", stockHandler.Pending)
	stock.Post("/pending/confirm", stockHandler.Confirm)
	stock.Delete("/pending", stockHandler.Cancel)

	reports := api.Group("/reports")
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/batches", reportHandler.Batches)
	reports.Get("/reconciliation", reportHandler.Reconciliation)
}
