package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/lib/pq"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// mapError переводит ошибки драйвера в доменные виды ошибок.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: referenced row missing (%s): %w", op, pqErr.Constraint, domain.ErrNotFound)
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
