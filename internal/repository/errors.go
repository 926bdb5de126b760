package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure on
// the given column. Works for PostgreSQL (pgx) and SQLite (modernc).
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return strings.Contains(pgErr.ConstraintName, column) ||
			strings.Contains(pgErr.Detail, "("+column+")")
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "."+column)
}
