package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Farmacia-api/internal/domain"
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

// writeError traduce errores de escritura: 23505 a onDuplicate, 23514 (quantity >= 0) a
// ErrInsufficientStock; el resto se envuelve con op.
func writeError(op string, err error, onDuplicate error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return onDuplicate
	case codeCheckViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
	}
	return fmt.Errorf("%s: %w", op, err)
}
