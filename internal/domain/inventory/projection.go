package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

// Summary totales agregados del inventario en una fecha de referencia.
//
// ExpiredTotal suma dos fuentes disjuntas: lo ya dado de baja como vencido (ExpiredRecorded)
// y lo que sigue en stock con fecha vencida (ExpiredInStock). Al registrar la baja EXPIRED,
// la cantidad sale del stock del lote y pasa de una fuente a la otra sin contarse dos veces.
type Summary struct {
	Today                 time.Time
	CurrentStock          int64
	TotalSold             int64
	ExpiredRecorded       int64
	ExpiredInStock        int64
	ExpiredTotal          int64
	ExpiredBatchesInStock int
	StockPct              decimal.Decimal
	SoldPct               decimal.Decimal
	ExpiredPct            decimal.Decimal
}

// ReportRow fila del reporte por lote.
type ReportRow struct {
	Batch           entity.ProductBatch
	In              int64
	Sold            int64
	Adjusted        int64
	ExpiredRecorded int64
	ExpiredInStock  int64
	ExpiredTotal    int64
}

// ExpiredInStock cantidad del lote que sigue en stock con la validez vencida en today.
func ExpiredInStock(b *entity.ProductBatch, today time.Time) int64 {
	if b.Quantity > 0 && IsExpired(b.ExpiryDate, today) {
		return b.Quantity
	}
	return 0
}

// Summarize calcula los totales a partir de los lotes y de los totales del ledger completo.
// today debe fijarse una sola vez por consulta.
func Summarize(batches []*entity.ProductBatch, ledger repository.MovementTotals, today time.Time) Summary {
	s := Summary{
		Today:           DateOf(today),
		TotalSold:       ledger.Sale,
		ExpiredRecorded: ledger.Expired,
	}
	for _, b := range batches {
		s.CurrentStock += b.Quantity
		if q := ExpiredInStock(b, today); q > 0 {
			s.ExpiredInStock += q
			s.ExpiredBatchesInStock++
		}
	}
	s.ExpiredTotal = s.ExpiredRecorded + s.ExpiredInStock

	// Base de la distribución: stock + vendido + vencido total.
	grand := s.CurrentStock + s.TotalSold + s.ExpiredTotal
	s.StockPct = SharePct(s.CurrentStock, grand)
	s.SoldPct = SharePct(s.TotalSold, grand)
	s.ExpiredPct = SharePct(s.ExpiredTotal, grand)
	return s
}

// BuildReport arma una fila por lote, en el mismo orden de batches.
func BuildReport(batches []*entity.ProductBatch, totals map[string]repository.MovementTotals, today time.Time) []ReportRow {
	rows := make([]ReportRow, 0, len(batches))
	for _, b := range batches {
		t := totals[b.ID]
		inStock := ExpiredInStock(b, today)
		rows = append(rows, ReportRow{
			Batch:           *b,
			In:              t.In,
			Sold:            t.Sale,
			Adjusted:        t.Adjusted,
			ExpiredRecorded: t.Expired,
			ExpiredInStock:  inStock,
			ExpiredTotal:    t.Expired + inStock,
		})
	}
	return rows
}
