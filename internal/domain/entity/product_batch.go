package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductBatch representa un lote de un producto con su propia fecha de validez.
// Quantity es el único campo mutable y siempre equivale a la suma neta de sus movimientos.
type ProductBatch struct {
	ID         string
	EAN        string
	BatchCode  string
	ExpiryDate time.Time // solo fecha (medianoche UTC)
	Quantity   int64
	CreatedAt  time.Time
}

// IsBatchID indica si id tiene forma de ID de lote (UUID canónico de 36 caracteres).
// Un ID con otra forma nunca puede existir.
func IsBatchID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
