package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con detalle: fmt.Errorf("%w: ...", domain.ErrValidation).
var (
	ErrValidation      = errors.New("entrada inválida")
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrStorage         = errors.New("fallo de almacenamiento")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrNoPendingChange = errors.New("no hay baja pendiente de confirmación")
)

// IsDomainError indica si err ya pertenece a la taxonomía de dominio.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStorage) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNoPendingChange)
}
