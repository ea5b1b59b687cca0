package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// column is one column assignment in a partial update.
type column struct {
	name  string
	value sql.NullString
}

// relationChange holds the assignments for one 1:1 sub-record table.
type relationChange struct {
	table   string
	columns []column
}

// changeSet is an update payload flattened to per-table assignments.
type changeSet struct {
	base      []column
	relations []relationChange
}

func (s changeSet) empty() bool {
	return len(s.base) == 0 && len(s.relations) == 0
}

// patchField pairs a column name with an optional patch value.
type patchField struct {
	name  string
	value *string
}

func collect(fields ...patchField) []column {
	var cols []column
	for _, f := range fields {
		if f.value != nil {
			cols = append(cols, column{name: f.name, value: nullablePtr(f.value)})
		}
	}
	return cols
}

func (s *changeSet) relation(table string, fields ...patchField) {
	if cols := collect(fields...); len(cols) > 0 {
		s.relations = append(s.relations, relationChange{table: table, columns: cols})
	}
}

// buildChangeSet flattens p. Fields absent from the payload produce no
// assignment; a payload with nothing recognized is rejected.
func buildChangeSet(p citation.UpdatePayload) (changeSet, error) {
	var s changeSet

	if p.Type != nil {
		kind, err := citation.ParseKind(*p.Type)
		if err != nil {
			return s, citation.InvalidRequest(fmt.Sprintf("unknown type %q", *p.Type))
		}
		s.base = append(s.base, column{name: "citation_type", value: nullableStringValue(string(kind))})
	}
	s.base = append(s.base, collect(
		patchField{"scopus_id", p.ScopusID},
		patchField{"collaborators", p.Collaborators},
		patchField{"citation_text", p.Text},
		patchField{"note", p.Note},
	)...)

	if m := p.Metadata; m != nil {
		if m.Title != nil && strings.TrimSpace(*m.Title) == "" {
			return s, citation.InvalidRequest("metadata.title cannot be empty")
		}
		s.relation("citation_metadata",
			patchField{"title", m.Title},
			patchField{"abstract", m.Abstract},
			patchField{"book_title", m.BookTitle},
			patchField{"journal", m.Journal},
		)
	}
	if pm := p.PublishedMetadata; pm != nil {
		if pm.Date != nil && strings.TrimSpace(*pm.Date) == "" {
			return s, citation.InvalidRequest("published_metadata.date cannot be empty")
		}
		s.relation("published_metadata",
			patchField{"how", pm.How},
			patchField{"date", pm.Date},
		)
	}
	if doc := p.Document; doc != nil {
		s.relation("documents",
			patchField{"doi", doc.DOI},
			patchField{"handle", doc.Handle},
			patchField{"url", doc.URL},
		)
	}
	if pub := p.Publisher; pub != nil {
		s.relation("publishers",
			patchField{"institution", pub.Institution},
			patchField{"organization", pub.Organization},
			patchField{"publisher", pub.Publisher},
			patchField{"school", pub.School},
			patchField{"address", pub.Address},
		)
	}
	if coll := p.Collection; coll != nil {
		s.relation("collections",
			patchField{"edition", coll.Edition},
			patchField{"series", coll.Series},
			patchField{"number", coll.Number},
			patchField{"volume", coll.Volume},
			patchField{"chapter", coll.Chapter},
			patchField{"pages", coll.Pages},
		)
	}

	if s.empty() {
		return s, citation.ErrInvalidUpdatePayload
	}
	return s, nil
}
