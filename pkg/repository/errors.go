package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgDuplicateKeyCode   = "23505"
	pgForeignKeyCode     = "23503"
	pgInvalidTextRepCode = "22P02"
)

// MapError translates database errors to domain errors.
// It maps sql.ErrNoRows and dangling foreign keys to notFoundErr and PostgreSQL
// unique violation (23505) to duplicateErr. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDuplicateKeyCode:
			return duplicateErr
		case pgForeignKeyCode, pgInvalidTextRepCode:
			return notFoundErr
		}
	}

	return err
}
