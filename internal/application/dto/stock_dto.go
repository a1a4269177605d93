package dto

import "time"

// ProposeQuantityRequest body para POST /api/batches/:id/quantity.
type ProposeQuantityRequest struct {
	NewQuantity *int64 `json:"new_quantity"`
}

// ConfirmPendingRequest body para POST /api/stock/pending/confirm.
type ConfirmPendingRequest struct {
	Reason string `json:"reason"` // sale | expired | adjust
}

// PendingChangeResponse baja en espera de confirmación ("de / a / cantidad a retirar").
type PendingChangeResponse struct {
	BatchID     string    `json:"batch_id"`
	OldQuantity int64     `json:"old_quantity"`
	NewQuantity int64     `json:"new_quantity"`
	Diff        int64     `json:"diff"`
	ProposedAt  time.Time `json:"proposed_at"`
}

// AppliedChangeResponse movimiento escrito en el ledger.
type AppliedChangeResponse struct {
	MovementID       string `json:"movement_id"`
	MovementType     string `json:"movement_type"`
	Quantity         int64  `json:"quantity"`
	PreviousQuantity int64  `json:"previous_quantity"`
	CurrentQuantity  int64  `json:"current_quantity"`
}

// StockStateResponse estado de la sesión tras un comando de stock.
// Outcome solo se informa en propuestas: NO_CHANGE, APPLIED o PENDING_CONFIRMATION.
type StockStateResponse struct {
	Outcome string                 `json:"outcome,omitempty"`
	State   string                 `json:"state"`
	Pending *PendingChangeResponse `json:"pending,omitempty"`
	Applied *AppliedChangeResponse `json:"applied,omitempty"`
}
