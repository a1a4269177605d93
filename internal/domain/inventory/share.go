package inventory

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SharePct porcentaje que part representa de total, redondeado a 2 decimales.
// Con total <= 0 devuelve cero.
func SharePct(part, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
}
