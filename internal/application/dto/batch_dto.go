package dto

import "time"

// RegisterBatchRequest body para POST /api/batches.
type RegisterBatchRequest struct {
	EAN        string `json:"ean"`
	Batch      string `json:"batch"`
	ExpiryDate string `json:"expiry_date"` // YYYY-MM-DD
	Quantity   int64  `json:"quantity"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID         string    `json:"id"`
	EAN        string    `json:"ean"`
	Batch      string    `json:"batch"`
	ExpiryDate string    `json:"expiry_date"`
	Quantity   int64     `json:"quantity"`
	Expired    bool      `json:"expired"`
	CreatedAt  time.Time `json:"created_at"`
}

// BatchListResponse salida de GET /api/batches.
type BatchListResponse struct {
	Total   int             `json:"total"`
	Batches []BatchResponse `json:"batches"`
}

// MovementResponse entrada del historial de un lote.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"movement_type"`
	Quantity  int64     `json:"quantity"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
