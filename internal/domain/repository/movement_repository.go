package repository

import (
	"context"

	"github.com/jhoicas/Validade-api/internal/domain/entity"
)

// MovementTotals suma de magnitudes por tipo de movimiento.
type MovementTotals struct {
	In       int64
	Sale     int64
	Expired  int64
	Adjusted int64
}

// Add acumula una magnitud en la columna del tipo dado.
func (t *MovementTotals) Add(mt entity.MovementType, qty int64) {
	switch mt {
	case entity.MovementTypeIn:
		t.In += qty
	case entity.MovementTypeSale:
		t.Sale += qty
	case entity.MovementTypeExpired:
		t.Expired += qty
	case entity.MovementTypeAdjust:
		t.Adjusted += qty
	}
}

// Net efecto neto sobre la cantidad: IN - SALE - EXPIRED - ADJUST.
func (t MovementTotals) Net() int64 {
	return t.In - t.Sale - t.Expired - t.Adjusted
}

// MovementRepository puerto del ledger append-only: solo inserta y consulta.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// ListByProduct devuelve los movimientos de un lote, del más antiguo al más reciente.
	ListByProduct(ctx context.Context, productID string) ([]*entity.Movement, error)
	// Totals suma las magnitudes de todo el ledger por tipo.
	Totals(ctx context.Context) (MovementTotals, error)
	// TotalsByProduct suma las magnitudes por lote y tipo.
	TotalsByProduct(ctx context.Context) (map[string]MovementTotals, error)
}
