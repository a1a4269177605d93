package entity

import (
	"fmt"
	"strings"
	"time"
)

// MovementType causa de un movimiento del ledger. Los valores coinciden con movements.movement_type.
type MovementType string

// Tipos de movimiento.
const (
	MovementTypeIn      MovementType = "in"      // entrada
	MovementTypeSale    MovementType = "sale"    // venta
	MovementTypeExpired MovementType = "expired" // vencido / descarte
	MovementTypeAdjust  MovementType = "adjust"  // otro ajuste (siempre baja)
)

// ParseMovementType normaliza y valida un tipo recibido como texto.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case MovementTypeIn, MovementTypeSale, MovementTypeExpired, MovementTypeAdjust:
		return t, nil
	}
	return "", fmt.Errorf("tipo de movimiento desconocido %q", s)
}

// IsDecreaseReason indica si el tipo es un motivo válido para una baja de stock.
func (t MovementType) IsDecreaseReason() bool {
	return t == MovementTypeSale || t == MovementTypeExpired || t == MovementTypeAdjust
}

// Movement entrada inmutable del ledger. Quantity es siempre la magnitud positiva del cambio.
type Movement struct {
	ID        string
	ProductID string
	Type      MovementType
	Quantity  int64
	CreatedBy string // actor verificado que emitió el comando
	CreatedAt time.Time
}
