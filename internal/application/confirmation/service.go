package confirmation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Validade-api/internal/application/ledger"
	"github.com/jhoicas/Validade-api/internal/domain"
	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/inventory"
	"github.com/jhoicas/Validade-api/pkg/logger"
)

// QuantityApplier comando del ledger que aplica el cambio (lo implementa *ledger.LedgerUseCase).
type QuantityApplier interface {
	ApplyQuantityChange(ctx context.Context, in ledger.QuantityChangeInput) (ledger.ChangeResult, error)
}

// BatchGetter lectura del lote vigente (lo implementa *projection.ProjectionUseCase).
type BatchGetter interface {
	GetBatch(ctx context.Context, id string) (*entity.ProductBatch, error)
}

// Outcome resultado de una propuesta.
type Outcome string

const (
	OutcomeNoChange Outcome = "NO_CHANGE"
	OutcomeApplied  Outcome = "APPLIED"
	OutcomePending  Outcome = "PENDING_CONFIRMATION"
)

// ProposalResult respuesta de ProposeQuantityChange.
type ProposalResult struct {
	Outcome Outcome
	State   State
	Pending *PendingChange
	Change  *ledger.ChangeResult
}

// ConfirmResult respuesta de ConfirmPendingChange.
type ConfirmResult struct {
	State   State
	Pending PendingChange
	Change  ledger.ChangeResult
}

// CancelResult respuesta de CancelPendingChange.
type CancelResult struct {
	State     State
	Cancelled bool
	Pending   *PendingChange
}

// StockControlService protocolo de dos pasos para cambios de cantidad:
// los aumentos se aplican al proponerlos; las bajas quedan pendientes hasta que el
// actor confirma el motivo (venta, vencido o ajuste) o cancela.
type StockControlService struct {
	ledger   QuantityApplier
	batches  BatchGetter
	sessions *SessionStore
	log      *logger.Logger
	now      func() time.Time
}

// NewStockControlService construye el servicio.
func NewStockControlService(applier QuantityApplier, batches BatchGetter, sessions *SessionStore, log *logger.Logger) *StockControlService {
	return &StockControlService{
		ledger:   applier,
		batches:  batches,
		sessions: sessions,
		log:      log.Component("confirmation"),
		now:      time.Now,
	}
}

// ProposeQuantityChange compara newQuantity con la cantidad vigente del lote.
// Igual: no hace nada. Mayor: registra la entrada. Menor: deja la baja pendiente de confirmación,
// reemplazando la propuesta anterior de la sesión.
func (s *StockControlService) ProposeQuantityChange(ctx context.Context, actor Actor, batchID string, newQuantity int64) (ProposalResult, error) {
	if err := validActor(actor); err != nil {
		return ProposalResult{}, err
	}
	if strings.TrimSpace(batchID) == "" {
		return ProposalResult{}, fmt.Errorf("%w: lote requerido", domain.ErrValidation)
	}
	if newQuantity < 0 {
		return ProposalResult{}, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrValidation)
	}

	batch, err := s.batches.GetBatch(ctx, batchID)
	if err != nil {
		return ProposalResult{}, err
	}
	session := s.sessions.Get(actor)

	kind, diff := inventory.ClassifyChange(batch.Quantity, newQuantity)
	switch kind {
	case inventory.ChangeNone:
		session.Reset()
		return ProposalResult{Outcome: OutcomeNoChange, State: StateIdle}, nil

	case inventory.ChangeIncrease:
		base := batch.Quantity
		res, err := s.ledger.ApplyQuantityChange(ctx, ledger.QuantityChangeInput{
			BatchID:      batch.ID,
			NewQuantity:  newQuantity,
			BaseQuantity: &base,
			ActorID:      actor.UserID,
		})
		if err != nil {
			return ProposalResult{}, err
		}
		session.Reset()
		return ProposalResult{Outcome: OutcomeApplied, State: StateIdle, Change: &res}, nil

	default:
		p := PendingChange{
			BatchID:     batch.ID,
			OldQuantity: batch.Quantity,
			NewQuantity: newQuantity,
			Diff:        diff,
			ProposedAt:  s.now(),
		}
		if err := session.Propose(p); err != nil {
			return ProposalResult{}, err
		}
		s.log.Debug().
			Str("actor", actor.UserID).
			Str("batch_id", p.BatchID).
			Int64("diff", p.Diff).
			Msg("baja pendiente de confirmación")
		return ProposalResult{Outcome: OutcomePending, State: StatePendingConfirmation, Pending: &p}, nil
	}
}

// ConfirmPendingChange aplica la baja pendiente con el motivo indicado.
// La baja se aplica como diferencia sobre la cantidad vigente: si ya no alcanza el stock,
// falla con ErrConflict y la propuesta se descarta.
func (s *StockControlService) ConfirmPendingChange(ctx context.Context, actor Actor, reason string) (ConfirmResult, error) {
	if err := validActor(actor); err != nil {
		return ConfirmResult{}, err
	}
	mt, err := entity.ParseMovementType(reason)
	if err != nil || !mt.IsDecreaseReason() {
		return ConfirmResult{}, fmt.Errorf("%w: motivo inválido %q (sale, expired o adjust)", domain.ErrValidation, reason)
	}

	session, ok := s.sessions.Lookup(actor)
	if !ok {
		return ConfirmResult{}, domain.ErrNoPendingChange
	}

	var change ledger.ChangeResult
	p, err := session.Confirm(func(p PendingChange) error {
		base := p.OldQuantity
		res, err := s.ledger.ApplyQuantityChange(ctx, ledger.QuantityChangeInput{
			BatchID:      p.BatchID,
			NewQuantity:  p.NewQuantity,
			Reason:       mt,
			BaseQuantity: &base,
			ActorID:      actor.UserID,
		})
		change = res
		return err
	})
	if err != nil {
		return ConfirmResult{}, err
	}
	return ConfirmResult{State: StateApplied, Pending: p, Change: change}, nil
}

// CancelPendingChange descarta la baja pendiente sin tocar el ledger.
func (s *StockControlService) CancelPendingChange(_ context.Context, actor Actor) (CancelResult, error) {
	if err := validActor(actor); err != nil {
		return CancelResult{}, err
	}
	session, ok := s.sessions.Lookup(actor)
	if !ok {
		return CancelResult{State: StateIdle}, nil
	}
	p, cancelled := session.Cancel()
	if !cancelled {
		return CancelResult{State: StateIdle}, nil
	}
	return CancelResult{State: StateCancelled, Cancelled: true, Pending: &p}, nil
}

// PendingChange devuelve la propuesta en espera de la sesión y su estado.
func (s *StockControlService) PendingChange(_ context.Context, actor Actor) (*PendingChange, State, error) {
	if err := validActor(actor); err != nil {
		return nil, StateIdle, err
	}
	session, ok := s.sessions.Lookup(actor)
	if !ok {
		return nil, StateIdle, nil
	}
	p, ok := session.Pending()
	if !ok {
		return nil, StateIdle, nil
	}
	return &p, StatePendingConfirmation, nil
}

func validActor(a Actor) error {
	if a.UserID == "" || a.SessionID == "" {
		return fmt.Errorf("%w: actor sin identidad verificada", domain.ErrUnauthorized)
	}
	return nil
}
