package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the domain repositories react to.
const (
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
)

// SQLState returns the PostgreSQL error code carried anywhere in err's chain,
// or "" when err did not come from the server.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// MapError replaces sql.ErrNoRows with notFound. Every other error is
// returned as is so callers can still inspect its SQLState.
func MapError(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

func IsForeignKeyViolation(err error) bool {
	return SQLState(err) == CodeForeignKeyViolation
}

func IsUniqueViolation(err error) bool {
	return SQLState(err) == CodeUniqueViolation
}
