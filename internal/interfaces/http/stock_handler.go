package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Validade-api/internal/application/confirmation"
	"github.com/jhoicas/Validade-api/internal/application/dto"
	"github.com/jhoicas/Validade-api/internal/domain"
)

// StockHandler cambios de cantidad con confirmación de bajas (protegido).
type StockHandler struct {
	svc *confirmation.StockControlService
}

// NewStockHandler construye el handler.
func NewStockHandler(svc *confirmation.StockControlService) *StockHandler {
	return &StockHandler{svc: svc}
}

// Propose godoc
// @Summary      Proponer nueva cantidad
// @Description  Igual a la actual: sin cambios. Mayor: se registra la entrada. Menor: queda pendiente
//
//	de confirmación con motivo (POST /api/stock/pending/confirm).
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del lote"
// @Param        body  body      dto.ProposeQuantityRequest  true  "new_quantity >= 0"
// @Success      200   {object}  dto.StockStateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/quantity [post]
func (h *StockHandler) Propose(c *fiber.Ctx) error {
	var in dto.ProposeQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.NewQuantity == nil {
		return writeError(c, domain.ErrValidation)
	}
	res, err := h.svc.ProposeQuantityChange(c.UserContext(), GetActor(c), c.Params("id"), *in.NewQuantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockStateResponse{
		Outcome: string(res.Outcome),
		State:   string(res.State),
		Pending: toPendingResponse(res.Pending),
		Applied: toAppliedResponse(res.Change),
	})
}

// Pending godoc
// @Summary      Baja pendiente de la sesión
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockStateResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock/pending [get]
func (h *StockHandler) Pending(c *fiber.Ctx) error {
	p, state, err := h.svc.PendingChange(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockStateResponse{State: string(state), Pending: toPendingResponse(p)})
}

// Confirm godoc
// @Summary      Confirmar baja pendiente
// @Description  Aplica la baja con el motivo indicado. Si el stock ya no alcanza responde 409 CONFLICT
//
//	y la propuesta se descarta.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ConfirmPendingRequest  true  "reason: sale | expired | adjust"
// @Success      200   {object}  dto.StockStateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/pending/confirm [post]
func (h *StockHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmPendingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.svc.ConfirmPendingChange(c.UserContext(), GetActor(c), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockStateResponse{
		State:   string(res.State),
		Pending: toPendingResponse(&res.Pending),
		Applied: toAppliedResponse(&res.Change),
	})
}

// Cancel godoc
// @Summary      Cancelar baja pendiente
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockStateResponse
// @Router       /api/stock/pending [delete]
func (h *StockHandler) Cancel(c *fiber.Ctx) error {
	res, err := h.svc.CancelPendingChange(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockStateResponse{State: string(res.State), Pending: toPendingResponse(res.Pending)})
}
