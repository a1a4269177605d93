package inventory

// ChangeKind clasificación de un cambio de cantidad absoluta.
type ChangeKind int

const (
	ChangeNone     ChangeKind = iota // misma cantidad: no se registra movimiento
	ChangeIncrease                   // entrada automática (IN)
	ChangeDecrease                   // baja: requiere motivo confirmado
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeIncrease:
		return "increase"
	case ChangeDecrease:
		return "decrease"
	default:
		return "none"
	}
}

// ClassifyChange compara la cantidad actual con la deseada y devuelve el tipo de cambio
// y su magnitud (siempre >= 0).
func ClassifyChange(current, target int64) (ChangeKind, int64) {
	switch {
	case target > current:
		return ChangeIncrease, target - current
	case target < current:
		return ChangeDecrease, current - target
	default:
		return ChangeNone, 0
	}
}
