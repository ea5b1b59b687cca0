// Package storage persists citation aggregates in a relational database.
//
// SQLite (modernc.org/sqlite) is the default backend; Postgres is reached
// through the pgx database/sql driver. Queries are written with ? placeholders
// and rebound for Postgres.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/matsen/citations/internal/citation"
	"github.com/matsen/citations/internal/logger"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB is the citation aggregate store.
type DB struct {
	db       *sql.DB
	postgres bool
	log      *logger.Logger
}

// Open connects to the database selected by driver and creates the schema if
// needed. For sqlite, dsn is a file path.
func Open(ctx context.Context, driver, dsn string, log *logger.Logger) (*DB, error) {
	if log == nil {
		log = logger.Nop()
	}

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		// SQLite doesn't support concurrent writes
		db.SetMaxOpenConns(1)
	case DriverPostgres:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown database driver: %s", driver)
	}

	d := &DB{db: db, postgres: driver == DriverPostgres, log: log}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := d.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return d, nil
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string, log *logger.Logger) (*DB, error) {
	return Open(context.Background(), DriverSQLite, path, log)
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// sqliteDSN turns on foreign key enforcement for every connection.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn runs statements against a queryer, rebinding placeholders for the
// dialect and tracing each statement at debug level.
type conn struct {
	q        queryer
	postgres bool
	log      *logger.Logger
	// ids are the citations the current operation touches, for failure logs.
	ids []string
}

func (d *DB) conn(q queryer, op string) *conn {
	return &conn{
		q:        q,
		postgres: d.postgres,
		log:      d.log.With("op", op, "op_id", uuid.NewString()),
	}
}

func (c *conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = c.prepare(query)
	return c.q.ExecContext(ctx, query, args...)
}

func (c *conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = c.prepare(query)
	return c.q.QueryContext(ctx, query, args...)
}

func (c *conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	query = c.prepare(query)
	return c.q.QueryRowContext(ctx, query, args...)
}

func (c *conn) prepare(query string) string {
	query = strings.TrimSpace(query)
	if c.postgres {
		query = rebind(query)
	}
	c.log.Debug("executing statement", "statement", query)
	return query
}

// rebind rewrites ? placeholders as $1, $2, ...
func rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// inTx runs fn inside one transaction. Any error rolls the transaction back.
// Request errors (no matching data, invalid request) are returned as they are;
// everything else is logged and surfaced as a *citation.PersistenceError.
func (d *DB) inTx(ctx context.Context, op string, fn func(c *conn) error) error {
	c := d.conn(nil, op)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return c.failure(op, fmt.Errorf("begin tx: %w", err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	c.q = tx

	if err := fn(c); err != nil {
		return c.failure(op, err)
	}
	if err := tx.Commit(); err != nil {
		return c.failure(op, fmt.Errorf("commit: %w", err))
	}
	committed = true
	return nil
}

func (c *conn) failure(op string, err error) error {
	if isRequestError(err) {
		c.log.Debug("transaction rolled back", "citation_ids", c.ids, "reason", err.Error())
		return err
	}
	c.log.Error("transaction rolled back", "citation_ids", c.ids, "error", err)
	return &citation.PersistenceError{Op: op, IDs: c.ids, Err: err}
}

// placeholders returns "?, ?, ?" for n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// stringArgs converts values for use as variadic query arguments.
func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullablePtr converts an optional patch value to sql.NullString.
// An explicit empty string clears the column.
func nullablePtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return nullableStringValue(*s)
}
