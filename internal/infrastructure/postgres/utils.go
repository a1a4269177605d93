package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Validade-api/internal/domain"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// mapQuantityError traduce el CHECK quantity >= 0 (23514) a ErrConflict.
func mapQuantityError(err error, op string) error {
	if pgCode(err) == codeCheckViolation {
		return fmt.Errorf("%w: %s: la cantidad no puede quedar negativa", domain.ErrConflict, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
