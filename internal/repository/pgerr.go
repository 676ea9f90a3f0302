package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"workforce-api/internal/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// storeError classifies a driver error. Unique violations become
// model.ErrDuplicate; everything else is reported as model.ErrPersistence.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, model.ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, model.ErrUserNotFound, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%w: %s: %w", model.ErrPersistence, op, err)
}
