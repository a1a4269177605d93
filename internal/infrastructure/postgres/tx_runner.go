package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/application/projection"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner           = (*TxRunner)(nil)
	_ projection.SnapshotRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La serialización por lote la da el SELECT ... FOR UPDATE de GetForUpdate.
func (r *TxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.ProductBatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// ReadSnapshot ejecuta fn en una transacción REPEATABLE READ de solo lectura:
// todas las consultas de fn ven el mismo snapshot.
func (r *TxRunner) ReadSnapshot(ctx context.Context, fn func(
	batchRepo repository.ProductBatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(
	batchRepo repository.ProductBatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductBatchRepository(tx), NewMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
