package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger append-only sobre la tabla movements. No expone UPDATE ni DELETE;
// el trigger movements_append_only los rechaza también a nivel de base.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, movement_type, quantity, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query, m.ID, m.ProductID, string(m.Type), m.Quantity, createdBy, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByProduct historial del lote, del más antiguo al más reciente.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Movement, error) {
	query := `
		SELECT id, product_id, movement_type, quantity, created_by, created_at
		FROM movements WHERE product_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var mt string
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &mt, &m.Quantity, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(mt)
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Totals suma de magnitudes por tipo sobre todo el ledger.
func (r *MovementRepo) Totals(ctx context.Context) (repository.MovementTotals, error) {
	query := `SELECT movement_type, COALESCE(SUM(quantity), 0)::bigint FROM movements GROUP BY movement_type`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return repository.MovementTotals{}, fmt.Errorf("movement totals: %w", err)
	}
	defer rows.Close()

	var t repository.MovementTotals
	for rows.Next() {
		var mt string
		var sum int64
		if err := rows.Scan(&mt, &sum); err != nil {
			return repository.MovementTotals{}, fmt.Errorf("scan movement totals: %w", err)
		}
		t.Add(entity.MovementType(mt), sum)
	}
	return t, rows.Err()
}

// TotalsByProduct suma de magnitudes por lote y tipo.
func (r *MovementRepo) TotalsByProduct(ctx context.Context) (map[string]repository.MovementTotals, error) {
	query := `
		SELECT product_id, movement_type, COALESCE(SUM(quantity), 0)::bigint
		FROM movements GROUP BY product_id, movement_type`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("movement totals by product: %w", err)
	}
	defer rows.Close()

	out := make(map[string]repository.MovementTotals)
	for rows.Next() {
		var id, mt string
		var sum int64
		if err := rows.Scan(&id, &mt, &sum); err != nil {
			return nil, fmt.Errorf("scan movement totals: %w", err)
		}
		t := out[id]
		t.Add(entity.MovementType(mt), sum)
		out[id] = t
	}
	return out, rows.Err()
}
