package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Validade-api/internal/application/dto"
	"github.com/jhoicas/Validade-api/internal/application/projection"
	"github.com/jhoicas/Validade-api/internal/domain/inventory"
)

// ReportHandler totales y reportes derivados del ledger (solo lectura).
type ReportHandler struct {
	projection *projection.ProjectionUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(p *projection.ProjectionUseCase) *ReportHandler {
	return &ReportHandler{projection: p}
}

// Summary godoc
// @Summary      Totales del inventario
// @Description  Stock actual, vendido, vencido (registrado + en stock) y reparto porcentual.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	s, err := h.projection.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSummaryResponse(s))
}

// Batches godoc
// @Summary      Reporte por lote
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BatchReportResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/batches [get]
func (h *ReportHandler) Batches(c *fiber.Ctx) error {
	rep, err := h.projection.PerBatchReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	rows := make([]dto.BatchReportRow, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		rows = append(rows, toReportRow(r))
	}
	return c.JSON(dto.BatchReportResponse{
		Today:   rep.Today.Format(inventory.DateLayout),
		Rows:    rows,
		Summary: toSummaryResponse(rep.Summary),
	})
}

// Reconciliation godoc
// @Summary      Conciliación cantidad vs. ledger
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/reconciliation [get]
func (h *ReportHandler) Reconciliation(c *fiber.Ctx) error {
	issues, err := h.projection.Reconcile(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ReconciliationResponse{Consistent: len(issues) == 0, Discrepancies: make([]dto.DiscrepancyDTO, 0, len(issues))}
	for _, d := range issues {
		out.Discrepancies = append(out.Discrepancies, dto.DiscrepancyDTO{
			BatchID:        d.BatchID,
			CachedQuantity: d.CachedQuantity,
			LedgerQuantity: d.LedgerQuantity,
		})
	}
	return c.JSON(out)
}
