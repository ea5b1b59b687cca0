package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matsen/citations/internal/citation"
	"github.com/matsen/citations/internal/export"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no matching data", fmt.Errorf("get: %w", citation.ErrNoMatchingData), ExitNotFound},
		{"invalid request", citation.InvalidRequest("bad"), ExitDataError},
		{"invalid selector", citation.ErrInvalidDeleteSelector, ExitDataError},
		{"empty update", citation.ErrInvalidUpdatePayload, ExitDataError},
		{"persistence", &citation.PersistenceError{Op: "create", Err: errors.New("disk full")}, ExitError},
		{"other", errors.New("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"1", []string{"1"}},
		{" 1, citations:2 ,,3 ", []string{"1", "citations:2", "3"}},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCollectionEnvelope(t *testing.T) {
	env := collectionEnvelope("ok", "articles", []string{"a"}, 1)

	for _, key := range []string{"status", "success", "api", "version", "collection", "count", "articles"} {
		if _, ok := env[key]; !ok {
			t.Errorf("envelope missing %q", key)
		}
	}
	if env["api"] != "citations" || env["version"] != "1.0" {
		t.Errorf("api/version = %v/%v", env["api"], env["version"])
	}
	if env["collection"] != "articles" {
		t.Errorf("collection = %v, want articles", env["collection"])
	}
}

func TestCitationViewJSON(t *testing.T) {
	c := &citation.Citation{
		ID:                "citations:7",
		Kind:              citation.KindArticle,
		Metadata:          &citation.Metadata{Title: "T", Journal: "J"},
		PublishedMetadata: &citation.PublishedMetadata{Date: "2020"},
		Document:          &citation.Document{DOI: "10.1/x"},
		Members: []citation.Member{{
			Individual: citation.Individual{UserID: "u1", FirstName: "Ada", LastName: "Lovelace"},
			Role:       citation.RoleAuthor,
		}},
	}

	data, err := json.Marshal(newCitationView(export.IEEE{}, c))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got["citation_id"] != "citations:7" {
		t.Errorf("citation_id = %v", got["citation_id"])
	}
	if got["formatted"] != `A. Lovelace, "T", <em>J</em>, 2020.` {
		t.Errorf("formatted = %v", got["formatted"])
	}
	if got["was_published"] != true {
		t.Errorf("was_published = %v, want true", got["was_published"])
	}
}

func TestReadPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	body := `{"type":"book","metadata":{"title":"B"},"published_metadata":{"date":"2001"},"members":[{"user_id":"u1","precedence":2}]}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write payload: %v", err)
	}

	var p citation.CreatePayload
	if err := readPayload(path, &p); err != nil {
		t.Fatalf("readPayload() error = %v", err)
	}
	if p.Type != "book" || p.Metadata.Title != "B" || len(p.Members) != 1 || p.Members[0].Precedence != 2 {
		t.Errorf("readPayload() = %+v", p)
	}

	if err := readPayload(filepath.Join(t.TempDir(), "missing.json"), &p); err == nil {
		t.Error("readPayload() expected error for missing file")
	}
}

func TestReadPayload_PartialUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.json")
	if err := os.WriteFile(path, []byte(`{"document":{"doi":"10.1/y"},"unknown":1}`), 0644); err != nil {
		t.Fatalf("Failed to write payload: %v", err)
	}

	var p citation.UpdatePayload
	if err := readPayload(path, &p); err != nil {
		t.Fatalf("readPayload() error = %v", err)
	}
	if p.Document == nil || p.Document.DOI == nil || *p.Document.DOI != "10.1/y" {
		t.Errorf("Document = %+v", p.Document)
	}
	if p.Document.URL != nil || p.Metadata != nil {
		t.Errorf("absent fields decoded as present: %+v", p)
	}
}
