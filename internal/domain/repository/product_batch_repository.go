package repository

import (
	"context"

	"github.com/jhoicas/Validade-api/internal/domain/entity"
)

// BatchFilter filtros opcionales para listar lotes.
type BatchFilter struct {
	EAN string // coincidencia exacta; vacío = todos
}

// ProductBatchRepository define el puerto de persistencia para lotes (tabla products).
// Las implementaciones se atan a una transacción o a un snapshot de lectura.
type ProductBatchRepository interface {
	Create(ctx context.Context, batch *entity.ProductBatch) error
	// GetByID devuelve nil, nil si el lote no existe.
	GetByID(ctx context.Context, id string) (*entity.ProductBatch, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.ProductBatch, error)
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	// List devuelve los lotes ordenados por fecha de validez ascendente.
	List(ctx context.Context, filter BatchFilter) ([]*entity.ProductBatch, error)
}
