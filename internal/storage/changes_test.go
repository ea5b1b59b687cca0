package storage

import (
	"errors"
	"testing"

	"github.com/matsen/citations/internal/citation"
)

func TestBuildChangeSet(t *testing.T) {
	s, err := buildChangeSet(citation.UpdatePayload{
		Note:       citation.String("n"),
		Document:   &citation.DocumentPatch{DOI: citation.String("10.1/x")},
		Collection: &citation.CollectionPatch{Pages: citation.String(""), Volume: citation.String("3")},
		Publisher:  &citation.PublisherPatch{},
	})
	if err != nil {
		t.Fatalf("buildChangeSet() error = %v", err)
	}

	if len(s.base) != 1 || s.base[0].name != "note" {
		t.Errorf("base = %+v, want only note", s.base)
	}
	if len(s.relations) != 2 {
		t.Fatalf("relations = %+v, want documents and collections", s.relations)
	}
	if s.relations[0].table != "documents" || len(s.relations[0].columns) != 1 {
		t.Errorf("relations[0] = %+v", s.relations[0])
	}

	coll := s.relations[1]
	if coll.table != "collections" || len(coll.columns) != 2 {
		t.Fatalf("relations[1] = %+v", coll)
	}
	for _, col := range coll.columns {
		if col.name == "pages" && col.value.Valid {
			t.Errorf("pages = %+v, want NULL for an explicit empty string", col.value)
		}
	}
}

func TestBuildChangeSet_Type(t *testing.T) {
	s, err := buildChangeSet(citation.UpdatePayload{Type: citation.String("Theses")})
	if err != nil {
		t.Fatalf("buildChangeSet() error = %v", err)
	}
	if s.base[0].value.String != "thesis" {
		t.Errorf("citation_type = %q, want thesis", s.base[0].value.String)
	}

	if _, err := buildChangeSet(citation.UpdatePayload{Type: citation.String("poem")}); !errors.Is(err, citation.ErrInvalidRequest) {
		t.Errorf("buildChangeSet(poem) error = %v, want ErrInvalidRequest", err)
	}
}
