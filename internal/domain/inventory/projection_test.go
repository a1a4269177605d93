package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/inventory"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsExpired_SoloComparaFechas(t *testing.T) {
	today := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)

	assert.False(t, inventory.IsExpired(date(2024, 3, 10), today), "vence al día siguiente de la validez")
	assert.True(t, inventory.IsExpired(date(2024, 3, 9), today))
	assert.False(t, inventory.IsExpired(date(2024, 3, 11), today))

	// La hora del vencimiento no influye.
	assert.True(t, inventory.IsExpired(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC), date(2024, 3, 10)))
}

func TestParseDate(t *testing.T) {
	d, err := inventory.ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 1), d)

	_, err = inventory.ParseDate("01/01/2024")
	assert.Error(t, err)
}

func TestClassifyChange(t *testing.T) {
	kind, diff := inventory.ClassifyChange(50, 50)
	assert.Equal(t, inventory.ChangeNone, kind)
	assert.Equal(t, int64(0), diff)

	kind, diff = inventory.ClassifyChange(50, 70)
	assert.Equal(t, inventory.ChangeIncrease, kind)
	assert.Equal(t, int64(20), diff)

	kind, diff = inventory.ClassifyChange(50, 30)
	assert.Equal(t, inventory.ChangeDecrease, kind)
	assert.Equal(t, int64(20), diff)
}

func TestSummarize_VencidosSonDisjuntos(t *testing.T) {
	today := date(2024, 6, 1)
	batches := []*entity.ProductBatch{
		{ID: "a", ExpiryDate: date(2024, 5, 1), Quantity: 20}, // vencido en stock
		{ID: "b", ExpiryDate: date(2024, 5, 1), Quantity: 0},  // vencido y ya dado de baja
		{ID: "c", ExpiryDate: date(2024, 7, 1), Quantity: 30},
	}
	ledger := repository.MovementTotals{In: 100, Sale: 10, Expired: 40}

	s := inventory.Summarize(batches, ledger, today)

	assert.Equal(t, int64(50), s.CurrentStock)
	assert.Equal(t, int64(10), s.TotalSold)
	assert.Equal(t, int64(40), s.ExpiredRecorded)
	assert.Equal(t, int64(20), s.ExpiredInStock)
	assert.Equal(t, int64(60), s.ExpiredTotal)
	assert.Equal(t, 1, s.ExpiredBatchesInStock)
}

func TestSummarize_BajaVencidaNoCambiaElTotal(t *testing.T) {
	today := date(2024, 6, 1)
	batch := &entity.ProductBatch{ID: "a", ExpiryDate: date(2024, 5, 1), Quantity: 20}

	before := inventory.Summarize([]*entity.ProductBatch{batch}, repository.MovementTotals{In: 20}, today)

	moved := *batch
	moved.Quantity = 0
	after := inventory.Summarize([]*entity.ProductBatch{&moved}, repository.MovementTotals{In: 20, Expired: 20}, today)

	assert.Equal(t, int64(20), before.ExpiredTotal)
	assert.Equal(t, before.ExpiredTotal, after.ExpiredTotal)
	assert.Equal(t, int64(0), after.ExpiredInStock)
	assert.Equal(t, int64(20), after.ExpiredRecorded)
}

func TestSummarize_Distribucion(t *testing.T) {
	batches := []*entity.ProductBatch{{ID: "a", ExpiryDate: date(2030, 1, 1), Quantity: 50}}
	s := inventory.Summarize(batches, repository.MovementTotals{In: 100, Sale: 25, Expired: 25}, date(2024, 1, 1))

	assert.True(t, decimal.NewFromInt(50).Equal(s.StockPct), s.StockPct.String())
	assert.True(t, decimal.NewFromInt(25).Equal(s.SoldPct))
	assert.True(t, decimal.NewFromInt(25).Equal(s.ExpiredPct))

	empty := inventory.Summarize(nil, repository.MovementTotals{}, date(2024, 1, 1))
	assert.True(t, empty.StockPct.IsZero())
	assert.True(t, empty.ExpiredPct.IsZero())
}

func TestSharePct_Redondeo(t *testing.T) {
	assert.Equal(t, "33.33", inventory.SharePct(1, 3).StringFixed(2))
	assert.True(t, inventory.SharePct(5, 0).IsZero())
}

func TestBuildReport_FilaPorLote(t *testing.T) {
	today := date(2024, 6, 1)
	batches := []*entity.ProductBatch{
		{ID: "a", EAN: "789", BatchCode: "L1", ExpiryDate: date(2024, 5, 1), Quantity: 5},
		{ID: "b", EAN: "789", BatchCode: "L2", ExpiryDate: date(2024, 8, 1), Quantity: 7},
	}
	totals := map[string]repository.MovementTotals{
		"a": {In: 20, Sale: 10, Expired: 3, Adjusted: 2},
		"b": {In: 7},
	}

	rows := inventory.BuildReport(batches, totals, today)
	require.Len(t, rows, 2)

	assert.Equal(t, "a", rows[0].Batch.ID)
	assert.Equal(t, int64(10), rows[0].Sold)
	assert.Equal(t, int64(3), rows[0].ExpiredRecorded)
	assert.Equal(t, int64(5), rows[0].ExpiredInStock)
	assert.Equal(t, int64(8), rows[0].ExpiredTotal)
	assert.Equal(t, int64(2), rows[0].Adjusted)

	assert.Equal(t, int64(0), rows[1].ExpiredInStock)
	assert.Equal(t, int64(0), rows[1].ExpiredTotal)
}

func TestReconcile(t *testing.T) {
	batches := []*entity.ProductBatch{
		{ID: "ok", Quantity: 5},
		{ID: "roto", Quantity: 9},
	}
	totals := map[string]repository.MovementTotals{
		"ok":   {In: 10, Sale: 3, Adjusted: 2},
		"roto": {In: 10, Expired: 4},
	}

	got := inventory.Reconcile(batches, totals)
	require.Len(t, got, 1)
	assert.Equal(t, inventory.Discrepancy{BatchID: "roto", CachedQuantity: 9, LedgerQuantity: 6}, got[0])
}
