package storage

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matsen/citations/internal/citation"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isRequestError reports whether err describes a bad request rather than a
// database failure.
func isRequestError(err error) bool {
	return errors.Is(err, citation.ErrNoMatchingData) ||
		errors.Is(err, citation.ErrInvalidRequest) ||
		errors.Is(err, citation.ErrInvalidUpdatePayload) ||
		errors.Is(err, citation.ErrInvalidDeleteSelector)
}

// isUniqueViolation reports whether err is a unique constraint failure on
// either backend.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}
