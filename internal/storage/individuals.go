package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// SaveIndividual inserts or replaces an individual keyed by user ID.
// An email already owned by another individual is rejected.
func (d *DB) SaveIndividual(ctx context.Context, ind citation.Individual) error {
	return d.conn(d.db, "save-individual").saveIndividual(ctx, ind)
}

func (c *conn) saveIndividual(ctx context.Context, ind citation.Individual) error {
	ind.UserID = strings.TrimSpace(ind.UserID)
	ind.Email = strings.TrimSpace(ind.Email)
	if ind.UserID == "" {
		return citation.InvalidRequest("user_id is required")
	}
	if ind.Email == "" {
		return citation.InvalidRequest("email is required")
	}

	_, err := c.exec(ctx, `
		INSERT INTO individuals (user_id, email, first_name, last_name, scopus_id, orcid_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			scopus_id = excluded.scopus_id,
			orcid_id = excluded.orcid_id`,
		ind.UserID, ind.Email, ind.FirstName, ind.LastName,
		nullableStringValue(ind.ScopusID), nullableStringValue(ind.ORCID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return citation.InvalidRequest(fmt.Sprintf("email %s is already in use", ind.Email))
		}
		return fmt.Errorf("saving individual %s: %w", ind.UserID, err)
	}
	return nil
}

// IndividualByEmail looks up an individual by email.
func (d *DB) IndividualByEmail(ctx context.Context, email string) (*citation.Individual, error) {
	var (
		ind           citation.Individual
		scopus, orcid sql.NullString
	)
	err := d.conn(d.db, "get-individual").queryRow(ctx, `
		SELECT user_id, email, first_name, last_name, scopus_id, orcid_id
		FROM individuals WHERE email = ?`, strings.TrimSpace(email),
	).Scan(&ind.UserID, &ind.Email, &ind.FirstName, &ind.LastName, &scopus, &orcid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no individual with email %s", citation.ErrNoMatchingData, email)
	}
	if err != nil {
		return nil, fmt.Errorf("querying individual: %w", err)
	}
	ind.ScopusID = scopus.String
	ind.ORCID = orcid.String
	return &ind, nil
}

// ListIndividuals returns every individual ordered by user ID.
func (d *DB) ListIndividuals(ctx context.Context) ([]citation.Individual, error) {
	rows, err := d.conn(d.db, "list-individuals").query(ctx, `
		SELECT user_id, email, first_name, last_name, scopus_id, orcid_id
		FROM individuals ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("querying individuals: %w", err)
	}
	defer rows.Close()

	var out []citation.Individual
	for rows.Next() {
		var (
			ind           citation.Individual
			scopus, orcid sql.NullString
		)
		if err := rows.Scan(&ind.UserID, &ind.Email, &ind.FirstName, &ind.LastName, &scopus, &orcid); err != nil {
			return nil, fmt.Errorf("scanning individual: %w", err)
		}
		ind.ScopusID = scopus.String
		ind.ORCID = orcid.String
		out = append(out, ind)
	}
	return out, rows.Err()
}

// AddMember attaches an individual to a citation, or updates the role and
// precedence of an existing membership. An empty role means author.
func (d *DB) AddMember(ctx context.Context, citationID string, m citation.MemberPayload) error {
	citationID = citation.NormalizeID(citationID)
	if strings.TrimSpace(m.UserID) == "" {
		return citation.InvalidRequest("user_id is required")
	}
	m.Role = strings.TrimSpace(m.Role)
	if m.Role == "" {
		m.Role = citation.RoleAuthor
	}

	return d.inTx(ctx, "add-member", func(c *conn) error {
		c.ids = []string{citationID}
		return c.addMember(ctx, citationID, m)
	})
}

func (c *conn) addMember(ctx context.Context, citationID string, m citation.MemberPayload) error {
	exists, err := c.rowExists(ctx, "citations", "citation_id", citationID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", citation.ErrNoMatchingData, citationID)
	}
	known, err := c.rowExists(ctx, "individuals", "user_id", m.UserID)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("%w: no individual %s", citation.ErrNoMatchingData, m.UserID)
	}

	_, err = c.exec(ctx, `
		INSERT INTO memberships (parent_entities_id, individuals_id, role_position, precedence)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (parent_entities_id, individuals_id) DO UPDATE SET
			role_position = excluded.role_position,
			precedence = excluded.precedence`,
		citationID, m.UserID, m.Role, m.Precedence,
	)
	if err != nil {
		return fmt.Errorf("attaching member %s: %w", m.UserID, err)
	}
	return nil
}

// RemoveMember detaches an individual from a citation. A citation keeps at
// least one member, so removing the last one is rejected.
func (d *DB) RemoveMember(ctx context.Context, citationID, userID string) error {
	citationID = citation.NormalizeID(citationID)
	return d.inTx(ctx, "remove-member", func(c *conn) error {
		c.ids = []string{citationID}

		var members int
		err := c.queryRow(ctx,
			`SELECT COUNT(*) FROM memberships WHERE parent_entities_id = ?`, citationID,
		).Scan(&members)
		if err != nil {
			return fmt.Errorf("counting members: %w", err)
		}

		res, err := c.exec(ctx,
			`DELETE FROM memberships WHERE parent_entities_id = ? AND individuals_id = ?`,
			citationID, userID)
		if err != nil {
			return fmt.Errorf("detaching member %s: %w", userID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s is not a member of %s", citation.ErrNoMatchingData, userID, citationID)
		}
		if members <= 1 {
			return citation.InvalidRequest(fmt.Sprintf("%s is the last member of %s", userID, citationID))
		}
		return nil
	})
}
