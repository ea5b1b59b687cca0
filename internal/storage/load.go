package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// Get loads one citation aggregate with all of its sub-records and members.
func (d *DB) Get(ctx context.Context, id string) (*citation.Citation, error) {
	id = citation.NormalizeID(id)
	c := d.conn(d.db, "get")

	cits, err := c.loadCitations(ctx, `WHERE c.citation_id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(cits) == 0 {
		return nil, fmt.Errorf("%w: %s", citation.ErrNoMatchingData, id)
	}
	return &cits[0], nil
}

// List returns citations matching filter in creation order.
func (d *DB) List(ctx context.Context, filter citation.ListFilter) ([]citation.Citation, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "c.citation_type = ?")
		args = append(args, string(filter.Kind))
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		where = append(where, `c.citation_id IN (
			SELECT m.parent_entities_id FROM memberships m
			JOIN individuals i ON i.user_id = m.individuals_id
			WHERE i.email = ?)`)
		args = append(args, email)
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	return d.conn(d.db, "list").loadCitations(ctx, clause, args...)
}

// Count returns the number of stored citations.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.conn(d.db, "count").queryRow(ctx, `SELECT COUNT(*) FROM citations`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting citations: %w", err)
	}
	return n, nil
}

// loadCitations selects base rows with the given WHERE clause, then fills in
// every relation with one query per table.
func (c *conn) loadCitations(ctx context.Context, where string, args ...any) ([]citation.Citation, error) {
	rows, err := c.query(ctx, `
		SELECT c.citation_id, c.citation_type, c.scopus_id, c.collaborators, c.citation_text, c.note
		FROM citations c `+where+`
		ORDER BY c.seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}

	var (
		cits  []citation.Citation
		index = map[string]int{}
	)
	for rows.Next() {
		var (
			cit                               citation.Citation
			kind                              string
			scopus, collaborators, text, note sql.NullString
		)
		if err := rows.Scan(&cit.ID, &kind, &scopus, &collaborators, &text, &note); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		cit.Kind = citation.Kind(kind)
		if !cit.Kind.Valid() {
			c.log.Warn("stored citation has an unrecognized type", "citation_id", cit.ID, "type", kind)
		}
		cit.ScopusID = scopus.String
		cit.Collaborators = collaborators.String
		cit.Text = text.String
		cit.Note = note.String
		cit.Members = []citation.Member{}
		index[cit.ID] = len(cits)
		cits = append(cits, cit)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(cits))
	for i := range cits {
		ids[i] = cits[i].ID
	}
	for _, load := range []func(context.Context, []string, []citation.Citation, map[string]int) error{
		c.loadMetadata,
		c.loadPublishedMetadata,
		c.loadDocuments,
		c.loadPublishers,
		c.loadCollections,
		c.loadMembers,
	} {
		if err := load(ctx, ids, cits, index); err != nil {
			return nil, err
		}
	}
	return cits, nil
}

// forEachRow runs query restricted to ids and calls fn for every row. The
// query must end with the citation ID column the IN list applies to.
func (c *conn) forEachRow(ctx context.Context, query string, ids []string, fn func(rows *sql.Rows) error) error {
	rows, err := c.query(ctx, query+` IN (`+placeholders(len(ids))+`)`, stringArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (c *conn) loadMetadata(ctx context.Context, ids []string, cits []citation.Citation, index map[string]int) error {
	err := c.forEachRow(ctx, `
		SELECT citation_id, title, abstract, book_title, journal
		FROM citation_metadata WHERE citation_id`, ids, func(rows *sql.Rows) error {
		var (
			id, title                    string
			abstract, bookTitle, journal sql.NullString
		)
		if err := rows.Scan(&id, &title, &abstract, &bookTitle, &journal); err != nil {
			return err
		}
		cits[index[id]].Metadata = &citation.Metadata{
			Title:     title,
			Abstract:  abstract.String,
			BookTitle: bookTitle.String,
			Journal:   journal.String,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading metadata: %w", err)
	}
	return nil
}

func (c *conn) loadPublishedMetadata(ctx context.Context, ids []string, cits []citation.Citation, index map[string]int) error {
	err := c.forEachRow(ctx, `
		SELECT citation_id, how, date
		FROM published_metadata WHERE citation_id`, ids, func(rows *sql.Rows) error {
		var (
			id, date string
			how      sql.NullString
		)
		if err := rows.Scan(&id, &how, &date); err != nil {
			return err
		}
		cits[index[id]].PublishedMetadata = &citation.PublishedMetadata{How: how.String, Date: date}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading published metadata: %w", err)
	}
	return nil
}

func (c *conn) loadDocuments(ctx context.Context, ids []string, cits []citation.Citation, index map[string]int) error {
	err := c.forEachRow(ctx, `
		SELECT citation_id, doi, handle, url
		FROM documents WHERE citation_id`, ids, func(rows *sql.Rows) error {
		var (
			id               string
			doi, handle, url sql.NullString
		)
		if err := rows.Scan(&id, &doi, &handle, &url); err != nil {
			return err
		}
		cits[index[id]].Document = &citation.Document{DOI: doi.String, Handle: handle.String, URL: url.String}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	return nil
}

func (c *conn) loadPublishers(ctx context.Context, ids []string, cits []citation.Citation, index map[string]int) error {
	err := c.forEachRow(ctx, `
		SELECT citation_id, institution, organization, publisher, school, address
		FROM publishers WHERE citation_id`, ids, func(rows *sql.Rows) error {
		var (
			id                                                    string
			institution, organization, publisher, school, address sql.NullString
		)
		if err := rows.Scan(&id, &institution, &organization, &publisher, &school, &address); err != nil {
			return err
		}
		cits[index[id]].Publisher = &citation.Publisher{
			Institution:  institution.String,
			Organization: organization.String,
			Publisher:    publisher.String,
			School:       school.String,
			Address:      address.String,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading publishers: %w", err)
	}
	return nil
}

func (c *conn) loadCollections(ctx context.Context, ids []string, cits []citation.Citation, index map[string]int) error {
	err := c.forEachRow(ctx, `
		SELECT citation_id, edition, series, number, volume, chapter, pages
		FROM collections WHERE citation_id`, ids, func(rows *sql.Rows) error {
		var (
			id                                              string
			edition, series, number, volume, chapter, pages sql.NullString
		)
		if err := rows.Scan(&id, &edition, &series, &number, &volume, &chapter, &pages); err != nil {
			return err
		}
		cits[index[id]].Collection = &citation.Collection{
			Edition: edition.String,
			Series:  series.String,
			Number:  number.String,
			Volume:  volume.String,
			Chapter: chapter.String,
			Pages:   pages.String,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading collections: %w", err)
	}
	return nil
}

// loadMembers attaches members joined with their individuals, ordered by
// precedence and then user ID.
func (c *conn) loadMembers(ctx context.Context, ids []string, cits []citation.Citation, index map[string]int) error {
	rows, err := c.query(ctx, `
		SELECT m.parent_entities_id, m.role_position, m.precedence,
			i.user_id, i.email, i.first_name, i.last_name, i.scopus_id, i.orcid_id
		FROM memberships m
		JOIN individuals i ON i.user_id = m.individuals_id
		WHERE m.parent_entities_id IN (`+placeholders(len(ids))+`)
		ORDER BY m.precedence, i.user_id`, stringArgs(ids)...)
	if err != nil {
		return fmt.Errorf("loading members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			parent        string
			m             citation.Member
			scopus, orcid sql.NullString
		)
		if err := rows.Scan(&parent, &m.Role, &m.Precedence,
			&m.UserID, &m.Email, &m.FirstName, &m.LastName, &scopus, &orcid); err != nil {
			return fmt.Errorf("scanning member: %w", err)
		}
		m.ScopusID = scopus.String
		m.ORCID = orcid.String
		owner := &cits[index[parent]]
		owner.Members = append(owner.Members, m)
	}
	return rows.Err()
}
