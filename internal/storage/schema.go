package storage

import (
	"context"
	"fmt"
)

// citationSequence names the id_sequences row that numbers citations.
const citationSequence = "citations"

// schema is portable between SQLite and Postgres.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS individuals (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		scopus_id TEXT,
		orcid_id TEXT
	)`,

	// One row per sequence; incremented inside the creating transaction.
	`CREATE TABLE IF NOT EXISTS id_sequences (
		name TEXT PRIMARY KEY,
		value BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS citations (
		citation_id TEXT PRIMARY KEY,
		seq BIGINT NOT NULL UNIQUE,
		citation_type TEXT NOT NULL,
		scopus_id TEXT,
		collaborators TEXT,
		citation_text TEXT,
		note TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS citation_metadata (
		citation_id TEXT PRIMARY KEY REFERENCES citations(citation_id),
		title TEXT NOT NULL,
		abstract TEXT,
		book_title TEXT,
		journal TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS published_metadata (
		citation_id TEXT PRIMARY KEY REFERENCES citations(citation_id),
		how TEXT,
		date TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS documents (
		citation_id TEXT PRIMARY KEY REFERENCES citations(citation_id),
		doi TEXT,
		handle TEXT,
		url TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS publishers (
		citation_id TEXT PRIMARY KEY REFERENCES citations(citation_id),
		institution TEXT,
		organization TEXT,
		publisher TEXT,
		school TEXT,
		address TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS collections (
		citation_id TEXT PRIMARY KEY REFERENCES citations(citation_id),
		edition TEXT,
		series TEXT,
		number TEXT,
		volume TEXT,
		chapter TEXT,
		pages TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS memberships (
		parent_entities_id TEXT NOT NULL REFERENCES citations(citation_id),
		individuals_id TEXT NOT NULL REFERENCES individuals(user_id),
		role_position TEXT NOT NULL,
		precedence INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (parent_entities_id, individuals_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_memberships_individual ON memberships(individuals_id)`,
	`CREATE INDEX IF NOT EXISTS idx_citations_type ON citations(citation_type)`,

	`INSERT INTO id_sequences (name, value) VALUES ('` + citationSequence + `', 0)
		ON CONFLICT (name) DO NOTHING`,
}

// dependentTable is one table that hangs off a citation, with the column
// holding the citation ID.
type dependentTable struct {
	name string
	fk   string
}

// deletePlan lists every citation table in reverse creation order: children
// first, the citations row last.
var deletePlan = []dependentTable{
	{"collections", "citation_id"},
	{"publishers", "citation_id"},
	{"documents", "citation_id"},
	{"memberships", "parent_entities_id"},
	{"published_metadata", "citation_id"},
	{"citation_metadata", "citation_id"},
	{"citations", "citation_id"},
}

// createSchema creates the database schema if it doesn't exist.
func (d *DB) createSchema(ctx context.Context) error {
	c := d.conn(d.db, "schema")
	for _, stmt := range schema {
		if _, err := c.exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing %.40q: %w", stmt, err)
		}
	}
	return nil
}

// nextSequence atomically increments and returns the named sequence. Inside a
// transaction the row stays locked until commit, so concurrent creators never
// observe the same value.
func (c *conn) nextSequence(ctx context.Context, name string) (int64, error) {
	var n int64
	err := c.queryRow(ctx,
		`UPDATE id_sequences SET value = value + 1 WHERE name = ? RETURNING value`, name,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("advancing sequence %s: %w", name, err)
	}
	return n, nil
}
