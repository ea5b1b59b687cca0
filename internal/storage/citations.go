package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// Create stores a new citation aggregate and returns its assigned ID.
//
// The citation, its metadata, published metadata and members are written
// together; document, publisher and collection rows only when the payload
// carries them. Every member is attached as an author.
func (d *DB) Create(ctx context.Context, p citation.CreatePayload) (string, error) {
	kind, err := p.Validate()
	if err != nil {
		return "", err
	}

	var id string
	err = d.inTx(ctx, "create", func(c *conn) error {
		created, err := c.create(ctx, kind, p)
		id = created
		return err
	})
	if err != nil {
		return "", err
	}

	d.log.Info("citation created", "citation_id", id, "type", string(kind))
	return id, nil
}

// create writes one validated aggregate and returns its new ID.
func (c *conn) create(ctx context.Context, kind citation.Kind, p citation.CreatePayload) (string, error) {
	seq, err := c.nextSequence(ctx, citationSequence)
	if err != nil {
		return "", err
	}
	id := citation.FormatID(seq)
	c.ids = append(c.ids, id)

	if _, err := c.exec(ctx, `
		INSERT INTO citations (citation_id, seq, citation_type, scopus_id, collaborators, citation_text, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, seq, string(kind),
		nullableStringValue(p.ScopusID), nullableStringValue(p.Collaborators),
		nullableStringValue(p.Text), nullableStringValue(p.Note),
	); err != nil {
		return "", fmt.Errorf("inserting citation: %w", err)
	}

	if _, err := c.exec(ctx, `
		INSERT INTO citation_metadata (citation_id, title, abstract, book_title, journal)
		VALUES (?, ?, ?, ?, ?)`,
		id, p.Metadata.Title, nullableStringValue(p.Metadata.Abstract),
		nullableStringValue(p.Metadata.BookTitle), nullableStringValue(p.Metadata.Journal),
	); err != nil {
		return "", fmt.Errorf("inserting metadata: %w", err)
	}

	if _, err := c.exec(ctx, `
		INSERT INTO published_metadata (citation_id, how, date) VALUES (?, ?, ?)`,
		id, nullableStringValue(p.PublishedMetadata.How), p.PublishedMetadata.Date,
	); err != nil {
		return "", fmt.Errorf("inserting published metadata: %w", err)
	}

	for _, m := range uniqueMembers(p.Members) {
		if _, err := c.exec(ctx, `
			INSERT INTO memberships (parent_entities_id, individuals_id, role_position, precedence)
			VALUES (?, ?, ?, ?)`,
			id, m.UserID, citation.RoleAuthor, m.Precedence,
		); err != nil {
			return "", fmt.Errorf("attaching member %s: %w", m.UserID, err)
		}
	}

	if p.Document.Filled() {
		if err := c.insertDocument(ctx, id, p.Document); err != nil {
			return "", err
		}
	}
	if p.Publisher.Filled() {
		if err := c.insertPublisher(ctx, id, p.Publisher); err != nil {
			return "", err
		}
	}
	if p.Collection.Filled() {
		if err := c.insertCollection(ctx, id, p.Collection); err != nil {
			return "", err
		}
	}
	return id, nil
}

// uniqueMembers collapses repeated user IDs; the last entry for a user wins.
func uniqueMembers(members []citation.MemberPayload) []citation.MemberPayload {
	last := make(map[string]int, len(members))
	for i, m := range members {
		last[m.UserID] = i
	}
	out := make([]citation.MemberPayload, 0, len(last))
	for i, m := range members {
		if last[m.UserID] == i {
			out = append(out, m)
		}
	}
	return out
}

func (c *conn) insertDocument(ctx context.Context, id string, doc *citation.Document) error {
	_, err := c.exec(ctx, `
		INSERT INTO documents (citation_id, doi, handle, url) VALUES (?, ?, ?, ?)`,
		id, nullableStringValue(doc.DOI), nullableStringValue(doc.Handle), nullableStringValue(doc.URL),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

func (c *conn) insertPublisher(ctx context.Context, id string, pub *citation.Publisher) error {
	_, err := c.exec(ctx, `
		INSERT INTO publishers (citation_id, institution, organization, publisher, school, address)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, nullableStringValue(pub.Institution), nullableStringValue(pub.Organization),
		nullableStringValue(pub.Publisher), nullableStringValue(pub.School), nullableStringValue(pub.Address),
	)
	if err != nil {
		return fmt.Errorf("inserting publisher: %w", err)
	}
	return nil
}

func (c *conn) insertCollection(ctx context.Context, id string, coll *citation.Collection) error {
	_, err := c.exec(ctx, `
		INSERT INTO collections (citation_id, edition, series, number, volume, chapter, pages)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, nullableStringValue(coll.Edition), nullableStringValue(coll.Series),
		nullableStringValue(coll.Number), nullableStringValue(coll.Volume),
		nullableStringValue(coll.Chapter), nullableStringValue(coll.Pages),
	)
	if err != nil {
		return fmt.Errorf("inserting collection: %w", err)
	}
	return nil
}

// Update applies a partial update to one citation and returns the number of
// rows written. Only fields present in the payload are touched; a sub-entity
// that does not exist yet is created with exactly the supplied fields.
func (d *DB) Update(ctx context.Context, id string, p citation.UpdatePayload) (int64, error) {
	id = citation.NormalizeID(id)
	changes, err := buildChangeSet(p)
	if err != nil {
		return 0, err
	}

	var written int64
	err = d.inTx(ctx, "update", func(c *conn) error {
		c.ids = []string{id}

		exists, err := c.rowExists(ctx, "citations", "citation_id", id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", citation.ErrNoMatchingData, id)
		}

		if len(changes.base) > 0 {
			n, err := c.updateColumns(ctx, "citations", "citation_id", id, changes.base)
			if err != nil {
				return err
			}
			written += n
		}

		for _, rel := range changes.relations {
			exists, err := c.rowExists(ctx, rel.table, "citation_id", id)
			if err != nil {
				return err
			}
			var n int64
			if exists {
				n, err = c.updateColumns(ctx, rel.table, "citation_id", id, rel.columns)
			} else {
				n, err = c.insertColumns(ctx, rel.table, id, rel.columns)
			}
			if err != nil {
				return err
			}
			written += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	d.log.Info("citation updated", "citation_id", id, "rows", written)
	return written, nil
}

func (c *conn) rowExists(ctx context.Context, table, keyColumn, key string) (bool, error) {
	rows, err := c.query(ctx, `SELECT 1 FROM `+table+` WHERE `+keyColumn+` = ?`, key)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", table, err)
	}
	defer rows.Close()
	found := rows.Next()
	return found, rows.Err()
}

func (c *conn) updateColumns(ctx context.Context, table, keyColumn, key string, cols []column) (int64, error) {
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		sets[i] = col.name + " = ?"
		args = append(args, col.value)
	}
	args = append(args, key)

	res, err := c.exec(ctx,
		`UPDATE `+table+` SET `+strings.Join(sets, ", ")+` WHERE `+keyColumn+` = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", table, err)
	}
	return res.RowsAffected()
}

func (c *conn) insertColumns(ctx context.Context, table, id string, cols []column) (int64, error) {
	names := []string{"citation_id"}
	args := []any{id}
	for _, col := range cols {
		names = append(names, col.name)
		args = append(args, col.value)
	}

	res, err := c.exec(ctx,
		`INSERT INTO `+table+` (`+strings.Join(names, ", ")+`) VALUES (`+placeholders(len(args))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Delete removes every citation the selector resolves to, together with all
// of their sub-records, and returns the number of citations removed. One
// DELETE is issued per table however many citations are selected.
func (d *DB) Delete(ctx context.Context, sel citation.DeleteSelector) (int64, error) {
	if err := sel.Validate(); err != nil {
		return 0, err
	}

	var removed int64
	err := d.inTx(ctx, "delete", func(c *conn) error {
		ids, err := c.resolveSelector(ctx, sel)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("%w: selector matched no citations", citation.ErrNoMatchingData)
		}
		c.ids = ids

		in := placeholders(len(ids))
		args := stringArgs(ids)
		for _, t := range deletePlan {
			res, err := c.exec(ctx, `DELETE FROM `+t.name+` WHERE `+t.fk+` IN (`+in+`)`, args...)
			if err != nil {
				return fmt.Errorf("deleting from %s: %w", t.name, err)
			}
			if t.name == "citations" {
				if removed, err = res.RowsAffected(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	d.log.Info("citations deleted", "count", removed)
	return removed, nil
}

// resolveSelector returns the citation IDs a selector refers to, in creation order.
func (c *conn) resolveSelector(ctx context.Context, sel citation.DeleteSelector) ([]string, error) {
	switch {
	case strings.TrimSpace(sel.ID) != "":
		return c.queryIDs(ctx,
			`SELECT citation_id FROM citations WHERE citation_id = ?`,
			citation.NormalizeID(sel.ID))

	case strings.TrimSpace(sel.Email) != "":
		return c.queryIDs(ctx, `
			SELECT c.citation_id FROM citations c
			WHERE c.citation_id IN (
				SELECT m.parent_entities_id FROM memberships m
				JOIN individuals i ON i.user_id = m.individuals_id
				WHERE i.email = ?
			)
			ORDER BY c.seq`,
			strings.TrimSpace(sel.Email))

	default:
		ids := make([]string, len(sel.Citations))
		for i, id := range sel.Citations {
			ids[i] = citation.NormalizeID(id)
		}
		return c.queryIDs(ctx,
			`SELECT citation_id FROM citations WHERE citation_id IN (`+placeholders(len(ids))+`) ORDER BY seq`,
			stringArgs(ids)...)
	}
}

func (c *conn) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := c.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolving citations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
