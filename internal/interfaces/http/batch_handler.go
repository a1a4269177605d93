package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Validade-api/internal/application/dto"
	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/application/projection"
	"github.com/jhoicas/Validade-api/internal/domain"
	"github.com/jhoicas/Validade-api/internal/domain/inventory"
)

// BatchHandler alta y consulta de lotes (protegido).
type BatchHandler struct {
	ledger     *ledger.LedgerUseCase
	projection *projection.ProjectionUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(l *ledger.LedgerUseCase, p *projection.ProjectionUseCase) *BatchHandler {
	return &BatchHandler{ledger: l, projection: p}
}

// Register godoc
// @Summary      Registrar lote
// @Description  Crea el lote y su movimiento IN inicial en una sola transacción.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterBatchRequest  true  "ean, batch, expiry_date (YYYY-MM-DD), quantity > 0"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	expiry, err := inventory.ParseDate(in.ExpiryDate)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
	}
	b, err := h.ledger.RegisterBatch(c.UserContext(), ledger.RegisterBatchInput{
		EAN:             in.EAN,
		BatchCode:       in.Batch,
		ExpiryDate:      expiry,
		InitialQuantity: in.Quantity,
		ActorID:         GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(b, h.projection.Today()))
}

// List godoc
// @Summary      Listar lotes
// @Description  Lotes ordenados por fecha de validez ascendente.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        ean           query  string  false  "Filtrar por EAN exacto"
// @Param        expired_only  query  bool    false  "Solo lotes vencidos con stock"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	q := projection.ListBatchesQuery{
		EAN:         c.Query("ean"),
		ExpiredOnly: c.QueryBool("expired_only", false),
	}
	batches, err := h.projection.ListBatches(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	today := h.projection.Today()
	out := dto.BatchListResponse{Total: len(batches), Batches: make([]dto.BatchResponse, 0, len(batches))}
	for _, b := range batches {
		out.Batches = append(out.Batches, toBatchResponse(b, today))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.projection.GetBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toBatchResponse(b, h.projection.Today()))
}

// Movements godoc
// @Summary      Historial de movimientos del lote
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del lote"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/movements [get]
func (h *BatchHandler) Movements(c *fiber.Ctx) error {
	movs, err := h.projection.ListMovements(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}
