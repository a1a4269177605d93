package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Validade-api/internal/domain"
	"github.com/jhoicas/Validade-api/internal/domain/entity"
	"github.com/jhoicas/Validade-api/internal/domain/inventory"
	"github.com/jhoicas/Validade-api/internal/domain/repository"
	"github.com/jhoicas/Validade-api/pkg/logger"
)

// LedgerUseCase aplica los comandos del ledger de forma transaccional:
// registrar lote (lote + movimiento IN) y cambiar cantidad (cantidad + un movimiento),
// con bloqueo de fila sobre el lote.
type LedgerUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, log: log.Component("ledger"), now: time.Now}
}

// RegisterBatchInput entrada para registrar un lote nuevo.
type RegisterBatchInput struct {
	EAN             string
	BatchCode       string
	ExpiryDate      time.Time
	InitialQuantity int64
	ActorID         string
}

// QuantityChangeInput entrada para fijar la cantidad absoluta de un lote.
//
// Reason es obligatorio cuando el resultado es una baja (sale, expired o adjust) y se ignora
// en entradas. Si BaseQuantity viene informado, el cambio se interpreta como delta respecto a
// esa base (NewQuantity - BaseQuantity) y se aplica sobre la cantidad vigente bloqueada.
type QuantityChangeInput struct {
	BatchID      string
	NewQuantity  int64
	Reason       entity.MovementType
	BaseQuantity *int64
	ActorID      string
}

// ChangeResult resultado de ApplyQuantityChange. Kind == ChangeNone indica "sin cambios".
type ChangeResult struct {
	Kind             inventory.ChangeKind
	MovementType     entity.MovementType
	Magnitude        int64
	PreviousQuantity int64
	Quantity         int64
	Movement         *entity.Movement
}

// NoChange indica que no se registró movimiento.
func (r ChangeResult) NoChange() bool { return r.Kind == inventory.ChangeNone }

// RegisterBatch valida la entrada y persiste el lote junto con su movimiento IN inicial.
func (uc *LedgerUseCase) RegisterBatch(ctx context.Context, in RegisterBatchInput) (*entity.ProductBatch, error) {
	in.EAN = strings.TrimSpace(in.EAN)
	in.BatchCode = strings.TrimSpace(in.BatchCode)
	switch {
	case in.EAN == "":
		return nil, fmt.Errorf("%w: ean requerido", domain.ErrValidation)
	case in.BatchCode == "":
		return nil, fmt.Errorf("%w: lote requerido", domain.ErrValidation)
	case in.ExpiryDate.IsZero():
		return nil, fmt.Errorf("%w: fecha de validez requerida", domain.ErrValidation)
	case in.InitialQuantity <= 0:
		return nil, fmt.Errorf("%w: la cantidad inicial debe ser positiva", domain.ErrValidation)
	}

	now := uc.now()
	batch := &entity.ProductBatch{
		ID:         uuid.New().String(),
		EAN:        in.EAN,
		BatchCode:  in.BatchCode,
		ExpiryDate: inventory.DateOf(in.ExpiryDate),
		Quantity:   in.InitialQuantity,
		CreatedAt:  now,
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: batch.ID,
		Type:      entity.MovementTypeIn,
		Quantity:  in.InitialQuantity,
		CreatedBy: in.ActorID,
		CreatedAt: now,
	}

	err := uc.txRunner.Run(ctx, func(batchRepo repository.ProductBatchRepository, movRepo repository.MovementRepository) error {
		if err := batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, uc.fail(err, "registrar lote", batch.ID)
	}

	uc.log.Info().
		Str("batch_id", batch.ID).
		Str("ean", batch.EAN).
		Str("batch", batch.BatchCode).
		Int64("quantity", batch.Quantity).
		Str("actor", in.ActorID).
		Msg("lote registrado")
	return batch, nil
}

// ApplyQuantityChange bloquea el lote (SELECT FOR UPDATE), calcula la cantidad destino y,
// si cambia, actualiza quantity y agrega exactamente un movimiento en la misma transacción.
// Una baja que dejaría el stock negativo se rechaza con ErrConflict, nunca se recorta.
func (uc *LedgerUseCase) ApplyQuantityChange(ctx context.Context, in QuantityChangeInput) (ChangeResult, error) {
	if strings.TrimSpace(in.BatchID) == "" {
		return ChangeResult{}, fmt.Errorf("%w: lote requerido", domain.ErrValidation)
	}
	if !entity.IsBatchID(in.BatchID) {
		return ChangeResult{}, uc.fail(fmt.Errorf("%w: lote %s", domain.ErrNotFound, in.BatchID), "cambiar cantidad", in.BatchID)
	}
	if in.NewQuantity < 0 {
		return ChangeResult{}, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrValidation)
	}
	if in.BaseQuantity != nil && *in.BaseQuantity < 0 {
		return ChangeResult{}, fmt.Errorf("%w: la cantidad base no puede ser negativa", domain.ErrValidation)
	}
	if in.Reason != "" && !in.Reason.IsDecreaseReason() {
		return ChangeResult{}, fmt.Errorf("%w: motivo de baja inválido %q", domain.ErrValidation, in.Reason)
	}

	var res ChangeResult
	err := uc.txRunner.Run(ctx, func(batchRepo repository.ProductBatchRepository, movRepo repository.MovementRepository) error {
		batch, err := batchRepo.GetForUpdate(ctx, in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, in.BatchID)
		}

		target := in.NewQuantity
		if in.BaseQuantity != nil {
			delta := in.NewQuantity - *in.BaseQuantity
			if delta > 0 && batch.Quantity > math.MaxInt64-delta {
				return fmt.Errorf("%w: la entrada de %d desborda el stock actual %d",
					domain.ErrValidation, delta, batch.Quantity)
			}
			target = batch.Quantity + delta
		}
		if target < 0 {
			return fmt.Errorf("%w: la baja de %d supera el stock actual %d",
				domain.ErrConflict, *in.BaseQuantity-in.NewQuantity, batch.Quantity)
		}

		kind, magnitude := inventory.ClassifyChange(batch.Quantity, target)
		res = ChangeResult{Kind: kind, Magnitude: magnitude, PreviousQuantity: batch.Quantity, Quantity: batch.Quantity}

		var mt entity.MovementType
		switch kind {
		case inventory.ChangeNone:
			return nil
		case inventory.ChangeIncrease:
			mt = entity.MovementTypeIn
		case inventory.ChangeDecrease:
			if in.Reason == "" {
				return fmt.Errorf("%w: una baja requiere motivo (sale, expired o adjust)", domain.ErrValidation)
			}
			mt = in.Reason
		}

		if err := batchRepo.UpdateQuantity(ctx, batch.ID, target); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:        uuid.New().String(),
			ProductID: batch.ID,
			Type:      mt,
			Quantity:  magnitude,
			CreatedBy: in.ActorID,
			CreatedAt: uc.now(),
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		res.MovementType = mt
		res.Quantity = target
		res.Movement = mov
		return nil
	})
	if err != nil {
		return ChangeResult{}, uc.fail(err, "cambiar cantidad", in.BatchID)
	}

	if !res.NoChange() {
		uc.log.Info().
			Str("batch_id", in.BatchID).
			Str("movement_type", string(res.MovementType)).
			Int64("quantity", res.Magnitude).
			Int64("stock", res.Quantity).
			Str("actor", in.ActorID).
			Msg("movimiento registrado")
	}
	return res, nil
}

// fail registra el error y envuelve fallos de infraestructura como ErrStorage.
func (uc *LedgerUseCase) fail(err error, op, batchID string) error {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		uc.log.Warn().Err(err).Str("op", op).Str("batch_id", batchID).Msg("comando rechazado")
		return err
	case domain.IsDomainError(err):
		uc.log.Error().Err(err).Str("op", op).Str("batch_id", batchID).Msg("comando fallido")
		return err
	default:
		uc.log.Error().Err(err).Str("op", op).Str("batch_id", batchID).Msg("fallo de almacenamiento")
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
}
