package projection

import (
	"context"

	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

// SnapshotRunner ejecuta fn sobre una vista de solo lectura consistente del ledger:
// ninguna consulta observa una cantidad sin su movimiento ni viceversa.
type SnapshotRunner interface {
	ReadSnapshot(ctx context.Context, fn func(
		batchRepo repository.ProductBatchRepository,
		movRepo repository.MovementRepository,
	) error) error
}
