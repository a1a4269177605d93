// Package memory implementa el ledger en memoria del proceso (STORE_DRIVER=memory).
// Sirve para desarrollo local y tests: las transacciones de escritura se serializan
// con un único candado y sus cambios se aplican solo en el Commit.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/application/projection"
	"github.com/jhoicas/Validade-api/internal/domain"
	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner           = (*Store)(nil)
	_ projection.SnapshotRunner = (*Store)(nil)
)

var errReadOnly = errors.New("memory: transacción de solo lectura")

// Store guarda lotes y movimientos en memoria.
type Store struct {
	mu        sync.RWMutex
	batches   map[string]*entity.ProductBatch
	movements []*entity.Movement
}

// New construye un store vacío.
func New() *Store {
	return &Store{batches: make(map[string]*entity.ProductBatch)}
}

// Run ejecuta fn con exclusión mutua; los cambios se publican solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(
	batchRepo repository.ProductBatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{store: s, staged: make(map[string]*entity.ProductBatch)}
	if err := fn(&batchRepo{tx: tx}, &movementRepo{tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// ReadSnapshot ejecuta fn sobre una vista de solo lectura consistente.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(
	batchRepo repository.ProductBatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx := &txState{store: s, readOnly: true}
	return fn(&batchRepo{tx: tx}, &movementRepo{tx: tx})
}

// txState cambios pendientes de una transacción sobre el estado confirmado del store.
type txState struct {
	store     *Store
	readOnly  bool
	staged    map[string]*entity.ProductBatch
	movements []*entity.Movement
}

func (tx *txState) batch(id string) *entity.ProductBatch {
	if b, ok := tx.staged[id]; ok {
		return b
	}
	return tx.store.batches[id]
}

func (tx *txState) allMovements() []*entity.Movement {
	if len(tx.movements) == 0 {
		return tx.store.movements
	}
	out := make([]*entity.Movement, 0, len(tx.store.movements)+len(tx.movements))
	out = append(out, tx.store.movements...)
	return append(out, tx.movements...)
}

func (tx *txState) commit() {
	for id, b := range tx.staged {
		tx.store.batches[id] = b
	}
	tx.store.movements = append(tx.store.movements, tx.movements...)
}

type batchRepo struct{ tx *txState }

func (r *batchRepo) Create(_ context.Context, b *entity.ProductBatch) error {
	if r.tx.readOnly {
		return errReadOnly
	}
	if r.tx.batch(b.ID) != nil {
		return fmt.Errorf("memory: lote duplicado %s", b.ID)
	}
	cp := *b
	r.tx.staged[b.ID] = &cp
	return nil
}

func (r *batchRepo) GetByID(_ context.Context, id string) (*entity.ProductBatch, error) {
	b := r.tx.batch(id)
	if b == nil {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

// GetForUpdate: el candado exclusivo de Run ya serializa a los escritores.
func (r *batchRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductBatch, error) {
	if r.tx.readOnly {
		return nil, errReadOnly
	}
	return r.GetByID(ctx, id)
}

func (r *batchRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	if r.tx.readOnly {
		return errReadOnly
	}
	if quantity < 0 {
		return fmt.Errorf("%w: la cantidad no puede quedar negativa", domain.ErrConflict)
	}
	b := r.tx.batch(id)
	if b == nil {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	cp := *b
	cp.Quantity = quantity
	r.tx.staged[id] = &cp
	return nil
}

func (r *batchRepo) List(_ context.Context, filter repository.BatchFilter) ([]*entity.ProductBatch, error) {
	seen := make(map[string]bool, len(r.tx.store.batches)+len(r.tx.staged))
	var out []*entity.ProductBatch
	add := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		b := r.tx.batch(id)
		if filter.EAN != "" && b.EAN != filter.EAN {
			return
		}
		cp := *b
		out = append(out, &cp)
	}
	for id := range r.tx.staged {
		add(id)
	}
	for id := range r.tx.store.batches {
		add(id)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.ExpiryDate.Equal(b.ExpiryDate) {
			return a.ExpiryDate.Before(b.ExpiryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

type movementRepo struct{ tx *txState }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if r.tx.readOnly {
		return errReadOnly
	}
	if r.tx.batch(m.ProductID) == nil {
		return fmt.Errorf("memory: movimiento referencia lote inexistente %s", m.ProductID)
	}
	if m.Quantity <= 0 {
		return fmt.Errorf("memory: magnitud de movimiento no positiva %d", m.Quantity)
	}
	cp := *m
	r.tx.movements = append(r.tx.movements, &cp)
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.tx.allMovements() {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *movementRepo) Totals(_ context.Context) (repository.MovementTotals, error) {
	var t repository.MovementTotals
	for _, m := range r.tx.allMovements() {
		t.Add(m.Type, m.Quantity)
	}
	return t, nil
}

func (r *movementRepo) TotalsByProduct(_ context.Context) (map[string]repository.MovementTotals, error) {
	out := make(map[string]repository.MovementTotals)
	for _, m := range r.tx.allMovements() {
		t := out[m.ProductID]
		t.Add(m.Type, m.Quantity)
		out[m.ProductID] = t
	}
	return out, nil
}
