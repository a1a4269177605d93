package inventory

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formato de fecha de calendario aceptado y emitido por la API.
const DateLayout = "2006-01-02"

// DateOf reduce t a su fecha de calendario (sin hora ni zona), representada como medianoche UTC.
// Se toma el año/mes/día tal como se ven en la zona de t; no se convierte entre zonas.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta una fecha YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q (formato %s)", s, DateLayout)
	}
	return d, nil
}

// IsExpired indica si un lote con validez expiry está vencido en la fecha today.
// Vence el día siguiente a su fecha de validez: expiry < today, comparando solo fechas.
func IsExpired(expiry, today time.Time) bool {
	return DateOf(expiry).Before(DateOf(today))
}
