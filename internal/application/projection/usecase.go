package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Validade-api/internal/domain"
	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/inventory"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

// ProjectionUseCase deriva stock, ventas y vencidos a partir de lotes y movimientos.
// Nunca modifica el ledger. La fecha "hoy" se toma una vez por llamada.
type ProjectionUseCase struct {
	snapshots SnapshotRunner
	now       func() time.Time
}

// NewProjectionUseCase construye el caso de uso. clock nil usa time.Now.
func NewProjectionUseCase(snapshots SnapshotRunner, clock func() time.Time) *ProjectionUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &ProjectionUseCase{snapshots: snapshots, now: clock}
}

// ListBatchesQuery filtros del listado de lotes.
type ListBatchesQuery struct {
	EAN         string
	ExpiredOnly bool // solo lotes vencidos que aún tienen stock
}

// Report reporte por lote junto con los totales calculados en el mismo snapshot.
type Report struct {
	Today   time.Time
	Rows    []inventory.ReportRow
	Summary inventory.Summary
}

// ListBatches devuelve los lotes ordenados por validez ascendente.
func (uc *ProjectionUseCase) ListBatches(ctx context.Context, q ListBatchesQuery) ([]*entity.ProductBatch, error) {
	today := uc.Today()
	var out []*entity.ProductBatch
	err := uc.read(ctx, func(batchRepo repository.ProductBatchRepository, _ repository.MovementRepository) error {
		batches, err := batchRepo.List(ctx, repository.BatchFilter{EAN: q.EAN})
		if err != nil {
			return err
		}
		if !q.ExpiredOnly {
			out = batches
			return nil
		}
		for _, b := range batches {
			if inventory.ExpiredInStock(b, today) > 0 {
				out = append(out, b)
			}
		}
		return nil
	})
	if out == nil && err == nil {
		out = []*entity.ProductBatch{}
	}
	return out, err
}

// GetBatch devuelve un lote por ID.
func (uc *ProjectionUseCase) GetBatch(ctx context.Context, id string) (*entity.ProductBatch, error) {
	if !entity.IsBatchID(id) {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	var batch *entity.ProductBatch
	err := uc.read(ctx, func(batchRepo repository.ProductBatchRepository, _ repository.MovementRepository) error {
		b, err := batchRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
		batch = b
		return nil
	})
	return batch, err
}

// ListMovements devuelve el historial de un lote, del más antiguo al más reciente.
func (uc *ProjectionUseCase) ListMovements(ctx context.Context, batchID string) ([]*entity.Movement, error) {
	if !entity.IsBatchID(batchID) {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, batchID)
	}
	var out []*entity.Movement
	err := uc.read(ctx, func(batchRepo repository.ProductBatchRepository, movRepo repository.MovementRepository) error {
		b, err := batchRepo.GetByID(ctx, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, batchID)
		}
		out, err = movRepo.ListByProduct(ctx, batchID)
		return err
	})
	if out == nil && err == nil {
		out = []*entity.Movement{}
	}
	return out, err
}

// CurrentStock suma de quantity de todos los lotes.
func (uc *ProjectionUseCase) CurrentStock(ctx context.Context) (int64, error) {
	s, err := uc.Summary(ctx)
	return s.CurrentStock, err
}

// TotalSold suma de todas las bajas por venta.
func (uc *ProjectionUseCase) TotalSold(ctx context.Context) (int64, error) {
	var sold int64
	err := uc.read(ctx, func(_ repository.ProductBatchRepository, movRepo repository.MovementRepository) error {
		t, err := movRepo.Totals(ctx)
		sold = t.Sale
		return err
	})
	return sold, err
}

// ExpiredTotal vencidos registrados + vencidos aún en stock.
func (uc *ProjectionUseCase) ExpiredTotal(ctx context.Context) (int64, error) {
	s, err := uc.Summary(ctx)
	return s.ExpiredTotal, err
}

// Summary calcula todos los totales en un único snapshot.
func (uc *ProjectionUseCase) Summary(ctx context.Context) (inventory.Summary, error) {
	today := uc.Today()
	var s inventory.Summary
	err := uc.read(ctx, func(batchRepo repository.ProductBatchRepository, movRepo repository.MovementRepository) error {
		batches, err := batchRepo.List(ctx, repository.BatchFilter{})
		if err != nil {
			return err
		}
		totals, err := movRepo.Totals(ctx)
		if err != nil {
			return err
		}
		s = inventory.Summarize(batches, totals, today)
		return nil
	})
	return s, err
}

// PerBatchReport una fila por lote (ordenadas por validez) más los totales del mismo snapshot.
func (uc *ProjectionUseCase) PerBatchReport(ctx context.Context) (*Report, error) {
	today := uc.Today()
	var rep *Report
	err := uc.read(ctx, func(batchRepo repository.ProductBatchRepository, movRepo repository.MovementRepository) error {
		batches, err := batchRepo.List(ctx, repository.BatchFilter{})
		if err != nil {
			return err
		}
		byProduct, err := movRepo.TotalsByProduct(ctx)
		if err != nil {
			return err
		}
		totals, err := movRepo.Totals(ctx)
		if err != nil {
			return err
		}
		rep = &Report{
			Today:   today,
			Rows:    inventory.BuildReport(batches, byProduct, today),
			Summary: inventory.Summarize(batches, totals, today),
		}
		return nil
	})
	return rep, err
}

// Reconcile lista los lotes cuya cantidad no coincide con la suma neta de su ledger.
func (uc *ProjectionUseCase) Reconcile(ctx context.Context) ([]inventory.Discrepancy, error) {
	var out []inventory.Discrepancy
	err := uc.read(ctx, func(batchRepo repository.ProductBatchRepository, movRepo repository.MovementRepository) error {
		batches, err := batchRepo.List(ctx, repository.BatchFilter{})
		if err != nil {
			return err
		}
		byProduct, err := movRepo.TotalsByProduct(ctx)
		if err != nil {
			return err
		}
		out = inventory.Reconcile(batches, byProduct)
		return nil
	})
	if out == nil && err == nil {
		out = []inventory.Discrepancy{}
	}
	return out, err
}

// Today fecha de calendario vigente según el reloj del caso de uso.
func (uc *ProjectionUseCase) Today() time.Time {
	return inventory.DateOf(uc.now())
}

func (uc *ProjectionUseCase) read(ctx context.Context, fn func(repository.ProductBatchRepository, repository.MovementRepository) error) error {
	err := uc.snapshots.ReadSnapshot(ctx, fn)
	if err == nil || domain.IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
