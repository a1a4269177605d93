package inventory

import (
	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

// Discrepancy lote cuya cantidad cacheada no coincide con la suma neta de su ledger.
type Discrepancy struct {
	BatchID        string
	CachedQuantity int64
	LedgerQuantity int64
}

// Reconcile verifica quantity == IN - SALE - EXPIRED - ADJUST para cada lote.
func Reconcile(batches []*entity.ProductBatch, totals map[string]repository.MovementTotals) []Discrepancy {
	var out []Discrepancy
	for _, b := range batches {
		net := totals[b.ID].Net()
		if net != b.Quantity {
			out = append(out, Discrepancy{BatchID: b.ID, CachedQuantity: b.Quantity, LedgerQuantity: net})
		}
	}
	return out
}
