package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Validade-api/internal/domain"
	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

var _ repository.ProductBatchRepository = (*ProductBatchRepo)(nil)

const batchColumns = `id, ean, batch, expiry, quantity, created_at`

// ProductBatchRepo implementación de ProductBatchRepository sobre la tabla products (usable con pool o tx).
type ProductBatchRepo struct {
	q Querier
}

// NewProductBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductBatchRepository(q Querier) *ProductBatchRepo {
	return &ProductBatchRepo{q: q}
}

// Create inserta el lote.
func (r *ProductBatchRepo) Create(ctx context.Context, b *entity.ProductBatch) error {
	query := `
		INSERT INTO products (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, b.ID, b.EAN, b.BatchCode, b.ExpiryDate, b.Quantity, b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lote duplicado %s", domain.ErrConflict, b.ID)
		}
		return fmt.Errorf("create product batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; nil, nil si no existe.
func (r *ProductBatchRepo) GetByID(ctx context.Context, id string) (*entity.ProductBatch, error) {
	return r.get(ctx, `SELECT `+batchColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *ProductBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductBatch, error) {
	return r.get(ctx, `SELECT `+batchColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductBatchRepo) get(ctx context.Context, query, id string) (*entity.ProductBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product batch: %w", err)
	}
	return b, nil
}

// UpdateQuantity fija la cantidad en caché del lote.
func (r *ProductBatchRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return mapQuantityError(err, "update quantity")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	return nil
}

// List lista los lotes por validez ascendente (empates por creación e id).
func (r *ProductBatchRepo) List(ctx context.Context, filter repository.BatchFilter) ([]*entity.ProductBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM products`
	var args []any
	if filter.EAN != "" {
		query += ` WHERE ean = $1`
		args = append(args, filter.EAN)
	}
	query += ` ORDER BY expiry ASC, created_at ASC, id ASC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.ProductBatch, error) {
	var b entity.ProductBatch
	if err := row.Scan(&b.ID, &b.EAN, &b.BatchCode, &b.ExpiryDate, &b.Quantity, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
