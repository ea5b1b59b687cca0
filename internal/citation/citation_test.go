package citation

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestWasPublished(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want bool
	}{
		{"no document", nil, false},
		{"empty document", &Document{}, false},
		{"whitespace only", &Document{DOI: "  ", Handle: "\t", URL: " "}, false},
		{"doi", &Document{DOI: "10.1234/x"}, true},
		{"handle", &Document{Handle: "10211.3/1"}, true},
		{"url", &Document{URL: "https://example.org"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Citation{Document: tt.doc}
			if got := c.WasPublished(); got != tt.want {
				t.Errorf("WasPublished() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"12", "citations:12"},
		{"citations:12", "citations:12"},
		{" 7 ", "citations:7"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeID(tt.in); got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatID(42); got != "citations:42" {
		t.Errorf("FormatID(42) = %q", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"article", KindArticle, false},
		{"Articles", KindArticle, false},
		{"book", KindBook, false},
		{"chapters", KindChapter, false},
		{"theses", KindThesis, false},
		{"thesis", KindThesis, false},
		{"patent", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnrecognizedType) {
				t.Errorf("ParseKind(%q) error should wrap ErrUnrecognizedType, got %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeleteSelectorValidate(t *testing.T) {
	tests := []struct {
		name    string
		sel     DeleteSelector
		wantErr bool
	}{
		{"empty", DeleteSelector{}, true},
		{"empty list", DeleteSelector{Citations: []string{}}, true},
		{"id only", DeleteSelector{ID: "3"}, false},
		{"email only", DeleteSelector{Email: "a@example.edu"}, false},
		{"list only", DeleteSelector{Citations: []string{"1", "2"}}, false},
		{"id and email", DeleteSelector{ID: "3", Email: "a@example.edu"}, true},
		{"email and list", DeleteSelector{Email: "a@example.edu", Citations: []string{"1"}}, true},
		{"all three", DeleteSelector{ID: "1", Email: "a@example.edu", Citations: []string{"1"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDeleteSelector) {
				t.Errorf("Validate() should wrap ErrInvalidDeleteSelector, got %v", err)
			}
		})
	}
}

func TestCreatePayloadValidate(t *testing.T) {
	valid := func() CreatePayload {
		return CreatePayload{
			Type:              "article",
			Metadata:          Metadata{Title: "A Title"},
			PublishedMetadata: PublishedMetadata{Date: "2020"},
			Members:           []MemberPayload{{UserID: "u1", Precedence: 0}},
		}
	}

	p := valid()
	kind, err := p.Validate()
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if kind != KindArticle {
		t.Errorf("Validate() kind = %q, want article", kind)
	}

	tests := []struct {
		name   string
		mutate func(*CreatePayload)
	}{
		{"bad type", func(p *CreatePayload) { p.Type = "poster" }},
		{"blank title", func(p *CreatePayload) { p.Metadata.Title = "  " }},
		{"no date", func(p *CreatePayload) { p.PublishedMetadata.Date = "" }},
		{"no members", func(p *CreatePayload) { p.Members = nil }},
		{"member without user", func(p *CreatePayload) { p.Members[0].UserID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			_, err := p.Validate()
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Validate() = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestSortMembers(t *testing.T) {
	members := []Member{
		{Individual: Individual{UserID: "c"}, Precedence: 2},
		{Individual: Individual{UserID: "b"}, Precedence: 0},
		{Individual: Individual{UserID: "a"}, Precedence: 2},
	}
	SortMembers(members)

	want := []string{"b", "a", "c"}
	for i, id := range want {
		if members[i].UserID != id {
			t.Errorf("members[%d] = %q, want %q", i, members[i].UserID, id)
		}
	}
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := error(&PersistenceError{Op: "create", Err: cause})

	if err.Error() != "the citation could not be created" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrPersistence) {
		t.Error("errors.Is(err, ErrPersistence) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestCitation_CreatePayload(t *testing.T) {
	c := Citation{
		ID:                "citations:3",
		Kind:              KindChapter,
		Note:              "n",
		Metadata:          &Metadata{Title: "T", BookTitle: "B"},
		PublishedMetadata: &PublishedMetadata{Date: "1999"},
		Collection:        &Collection{Pages: "1-9"},
		// Out of order: the payload lists members by precedence.
		Members: []Member{
			{Individual: Individual{UserID: "u2"}, Role: "editor", Precedence: 1},
			{Individual: Individual{UserID: "u1"}, Role: RoleAuthor, Precedence: 0},
		},
	}

	p := c.CreatePayload()
	kind, err := p.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if kind != KindChapter {
		t.Errorf("kind = %q, want chapter", kind)
	}
	if p.Metadata.BookTitle != "B" || p.Collection.Pages != "1-9" || p.Note != "n" {
		t.Errorf("CreatePayload() = %+v", p)
	}
	if len(p.Members) != 2 || p.Members[1].Role != "editor" || p.Members[1].Precedence != 1 {
		t.Errorf("Members = %+v", p.Members)
	}
	if c.Members[0].UserID != "u2" {
		t.Error("CreatePayload() reordered the citation's own members")
	}
}

func TestCreatePayload_PrecedenceDefaultsToZero(t *testing.T) {
	body := `{"type":"article","metadata":{"title":"T"},"published_metadata":{"date":"2020"},"members":[{"user_id":"u1"}]}`

	var p CreatePayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want a member without precedence accepted", err)
	}
	if p.Members[0].Precedence != 0 {
		t.Errorf("Precedence = %d, want 0", p.Members[0].Precedence)
	}
}
