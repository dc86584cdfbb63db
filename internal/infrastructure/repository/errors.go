package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/dukahub-api/pkg/apperror"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps constraint violations onto application errors.
// Anything else is returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return apperror.NewConflictError("Resource already exists")
	case pgForeignKeyViolation:
		return apperror.NewBadRequestError("Referenced resource does not exist")
	case pgCheckViolation:
		return apperror.NewBadRequestError("Value violates a constraint: " + pgErr.ConstraintName)
	}
	return err
}
