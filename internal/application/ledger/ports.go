package ledger

import (
	"context"

	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de escritura, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza que cantidad y movimiento
// se persistan juntos o no se persistan.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.ProductBatchRepository,
		movRepo repository.MovementRepository,
	) error) error
}
