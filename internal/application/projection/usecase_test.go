package projection_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/application/projection"
	"github.com/jhoicas/Validade-api/internal/domain"
	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
	"github.com/jhoicas/Validade-api/internal/infrastructure/memory"
	"github.com/jhoicas/Validade-api/pkg/logger"
)

var today = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*ledger.LedgerUseCase, *projection.ProjectionUseCase) {
	t.Helper()
	store := memory.New()
	clock := func() time.Time { return today }
	return ledger.NewLedgerUseCase(store, logger.Nop()), projection.NewProjectionUseCase(store, clock)
}

func register(t *testing.T, uc *ledger.LedgerUseCase, ean, code string, expiry time.Time, qty int64) *entity.ProductBatch {
	t.Helper()
	b, err := uc.RegisterBatch(context.Background(), ledger.RegisterBatchInput{
		EAN: ean, BatchCode: code, ExpiryDate: expiry, InitialQuantity: qty, ActorID: "u1",
	})
	require.NoError(t, err)
	return b
}

func TestListBatches_OrdenadosPorValidez(t *testing.T) {
	uc, proj := setup(t)
	ctx := context.Background()

	register(t, uc, "789", "L3", date(2024, 9, 1), 3)
	register(t, uc, "789", "L1", date(2024, 1, 1), 1)
	register(t, uc, "111", "L2", date(2024, 7, 1), 2)

	all, err := proj.ListBatches(ctx, projection.ListBatchesQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "L1", all[0].BatchCode)
	assert.Equal(t, "L2", all[1].BatchCode)
	assert.Equal(t, "L3", all[2].BatchCode)

	byEAN, err := proj.ListBatches(ctx, projection.ListBatchesQuery{EAN: "789"})
	require.NoError(t, err)
	require.Len(t, byEAN, 2)

	expired, err := proj.ListBatches(ctx, projection.ListBatchesQuery{ExpiredOnly: true})
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "L1", expired[0].BatchCode)
}

func TestListBatches_VacioNoEsNil(t *testing.T) {
	_, proj := setup(t)
	got, err := proj.ListBatches(context.Background(), projection.ListBatchesQuery{EAN: "nada"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRegistroYConsulta(t *testing.T) {
	uc, proj := setup(t)
	ctx := context.Background()

	register(t, uc, "7891000100103", "L1", date(2024, 1, 1), 50)

	stock, err := proj.CurrentStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), stock)

	sold, err := proj.TotalSold(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sold)

	// Validez 2024-01-01 < hoy: las 50 unidades cuentan como vencidas en stock.
	expired, err := proj.ExpiredTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), expired)
}

func TestExpiredTotal_BajaPorVencimientoNoDuplica(t *testing.T) {
	uc, proj := setup(t)
	ctx := context.Background()
	b := register(t, uc, "789", "L1", date(2024, 5, 1), 20)

	before, err := proj.ExpiredTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), before)

	_, err = uc.ApplyQuantityChange(ctx, ledger.QuantityChangeInput{
		BatchID: b.ID, NewQuantity: 0, Reason: entity.MovementTypeExpired,
	})
	require.NoError(t, err)

	after, err := proj.ExpiredTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	s, err := proj.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), s.ExpiredRecorded)
	assert.Equal(t, int64(0), s.ExpiredInStock)
	assert.Equal(t, int64(0), s.CurrentStock)
}

func TestExpiredTotal_VenceAlDiaSiguiente(t *testing.T) {
	uc, proj := setup(t)
	register(t, uc, "789", "HOY", date(2024, 6, 1), 7)

	expired, err := proj.ExpiredTotal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired, "un lote con validez hoy todavía no está vencido")
}

func TestPerBatchReport(t *testing.T) {
	uc, proj := setup(t)
	ctx := context.Background()

	old := register(t, uc, "789", "L1", date(2024, 5, 1), 30)
	register(t, uc, "789", "L2", date(2024, 8, 1), 10)

	_, err := uc.ApplyQuantityChange(ctx, ledger.QuantityChangeInput{BatchID: old.ID, NewQuantity: 20, Reason: entity.MovementTypeSale})
	require.NoError(t, err)
	_, err = uc.ApplyQuantityChange(ctx, ledger.QuantityChangeInput{BatchID: old.ID, NewQuantity: 15, Reason: entity.MovementTypeExpired})
	require.NoError(t, err)

	rep, err := proj.PerBatchReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 6, 1), rep.Today)
	require.Len(t, rep.Rows, 2)

	first := rep.Rows[0]
	assert.Equal(t, "L1", first.Batch.BatchCode)
	assert.Equal(t, int64(30), first.In)
	assert.Equal(t, int64(10), first.Sold)
	assert.Equal(t, int64(5), first.ExpiredRecorded)
	assert.Equal(t, int64(15), first.ExpiredInStock)
	assert.Equal(t, int64(20), first.ExpiredTotal)

	assert.Equal(t, int64(0), rep.Rows[1].ExpiredTotal)

	assert.Equal(t, int64(25), rep.Summary.CurrentStock)
	assert.Equal(t, int64(10), rep.Summary.TotalSold)
	assert.Equal(t, int64(20), rep.Summary.ExpiredTotal)
}

func TestGetBatchYMovimientos_NoEncontrado(t *testing.T) {
	_, proj := setup(t)
	ctx := context.Background()

	_, err := proj.GetBatch(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = proj.ListMovements(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile_LedgerConsistente(t *testing.T) {
	uc, proj := setup(t)
	ctx := context.Background()
	b := register(t, uc, "789", "L1", date(2024, 8, 1), 10)

	_, err := uc.ApplyQuantityChange(ctx, ledger.QuantityChangeInput{BatchID: b.ID, NewQuantity: 4, Reason: entity.MovementTypeAdjust})
	require.NoError(t, err)
	_, err = uc.ApplyQuantityChange(ctx, ledger.QuantityChangeInput{BatchID: b.ID, NewQuantity: 12})
	require.NoError(t, err)

	issues, err := proj.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

type failingSnapshots struct{ err error }

func (f failingSnapshots) ReadSnapshot(context.Context, func(repository.ProductBatchRepository, repository.MovementRepository) error) error {
	return f.err
}

func TestGetBatch_IDMalformadoEsNoEncontrado(t *testing.T) {
	// Si la consulta llegara al backend el error sería de almacenamiento.
	proj := projection.NewProjectionUseCase(failingSnapshots{err: errors.New("invalid input syntax for type uuid")}, nil)
	ctx := context.Background()

	for _, id := range []string{"abc", "", "12345"} {
		_, err := proj.GetBatch(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
		assert.NotErrorIs(t, err, domain.ErrStorage, id)

		_, err = proj.ListMovements(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}

	_, err := proj.GetBatch(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrStorage)
}
