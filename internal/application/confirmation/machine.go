package confirmation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Validade-api/internal/domain"
)

// State estado de la máquina de confirmación de bajas.
// APPLIED y CANCELLED son terminales y la sesión vuelve de inmediato a IDLE.
type State string

const (
	StateIdle                State = "IDLE"
	StatePendingConfirmation State = "PENDING_CONFIRMATION"
	StateApplied             State = "APPLIED"
	StateCancelled           State = "CANCELLED"
)

// PendingChange baja propuesta que aún no se escribió en el ledger.
type PendingChange struct {
	BatchID     string
	OldQuantity int64
	NewQuantity int64
	Diff        int64
	ProposedAt  time.Time
}

// Session estado de confirmación de un actor. Solo guarda una propuesta: la última gana.
type Session struct {
	mu      sync.Mutex
	pending *PendingChange
}

// State devuelve IDLE o PENDING_CONFIRMATION.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return StateIdle
	}
	return StatePendingConfirmation
}

// Pending devuelve la propuesta en espera, si existe.
func (s *Session) Pending() (PendingChange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingChange{}, false
	}
	return *s.pending, true
}

// Propose IDLE|PENDING -> PENDING_CONFIRMATION, reemplazando cualquier propuesta anterior.
func (s *Session) Propose(p PendingChange) error {
	if p.BatchID == "" || p.Diff <= 0 || p.NewQuantity < 0 || p.OldQuantity-p.NewQuantity != p.Diff {
		return fmt.Errorf("%w: propuesta de baja inconsistente", domain.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &p
	return nil
}

// Reset descarta cualquier propuesta (vuelve a IDLE).
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Confirm PENDING_CONFIRMATION -> APPLIED -> IDLE. apply se ejecuta con la sesión bloqueada,
// de modo que dos confirmaciones de la misma sesión no aplican la baja dos veces.
// Si apply falla por conflicto o lote inexistente la propuesta se descarta (hay que volver a
// proponer); ante otros errores se conserva para reintentar.
func (s *Session) Confirm(apply func(PendingChange) error) (PendingChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingChange{}, domain.ErrNoPendingChange
	}
	p := *s.pending
	err := apply(p)
	if err == nil || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
		s.pending = nil
	}
	return p, err
}

// Cancel PENDING_CONFIRMATION -> CANCELLED -> IDLE. Devuelve false si no había propuesta.
func (s *Session) Cancel() (PendingChange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingChange{}, false
	}
	p := *s.pending
	s.pending = nil
	return p, true
}
