package citation

import (
	"fmt"
	"strings"
)

// CreatePayload is the structured request for creating a citation.
// Optional sub-objects are nil when absent from the request.
type CreatePayload struct {
	Type              string            `json:"type"`
	ScopusID          string            `json:"scopus_id,omitempty"`
	Collaborators     string            `json:"collaborators,omitempty"`
	Text              string            `json:"citation_text,omitempty"`
	Note              string            `json:"note,omitempty"`
	Metadata          Metadata          `json:"metadata"`
	PublishedMetadata PublishedMetadata `json:"published_metadata"`
	Members           []MemberPayload   `json:"members"`
	Document          *Document         `json:"document,omitempty"`
	Publisher         *Publisher        `json:"publisher,omitempty"`
	Collection        *Collection       `json:"collection,omitempty"`
}

// MemberPayload attaches an individual to a citation.
type MemberPayload struct {
	UserID     string `json:"user_id"`
	Precedence int    `json:"precedence"`
	Role       string `json:"role_position,omitempty"`
}

// Validate checks the minimum data a citation needs before it is stored.
func (p *CreatePayload) Validate() (Kind, error) {
	kind, err := ParseKind(p.Type)
	if err != nil {
		return "", InvalidRequest(fmt.Sprintf("type must be one of %s", kindList()))
	}
	if strings.TrimSpace(p.Metadata.Title) == "" {
		return "", InvalidRequest("metadata.title is required")
	}
	if strings.TrimSpace(p.PublishedMetadata.Date) == "" {
		return "", InvalidRequest("published_metadata.date is required")
	}
	if len(p.Members) == 0 {
		return "", InvalidRequest("at least one member is required")
	}
	for i, m := range p.Members {
		if strings.TrimSpace(m.UserID) == "" {
			return "", InvalidRequest(fmt.Sprintf("members.%d.user_id is required", i))
		}
	}
	return kind, nil
}

// Filled reports whether any field of the document is set.
func (d *Document) Filled() bool {
	return d != nil && (d.DOI != "" || d.Handle != "" || d.URL != "")
}

// Filled reports whether any field of the publisher is set.
func (p *Publisher) Filled() bool {
	return p != nil && (p.Institution != "" || p.Organization != "" ||
		p.Publisher != "" || p.School != "" || p.Address != "")
}

// Filled reports whether any field of the collection is set.
func (c *Collection) Filled() bool {
	return c != nil && (c.Edition != "" || c.Series != "" || c.Number != "" ||
		c.Volume != "" || c.Chapter != "" || c.Pages != "")
}

// UpdatePayload is a partial update. Nil pointers are fields absent from the
// request; only present fields are written.
type UpdatePayload struct {
	Type              *string                 `json:"type,omitempty"`
	ScopusID          *string                 `json:"scopus_id,omitempty"`
	Collaborators     *string                 `json:"collaborators,omitempty"`
	Text              *string                 `json:"citation_text,omitempty"`
	Note              *string                 `json:"note,omitempty"`
	Metadata          *MetadataPatch          `json:"metadata,omitempty"`
	PublishedMetadata *PublishedMetadataPatch `json:"published_metadata,omitempty"`
	Document          *DocumentPatch          `json:"document,omitempty"`
	Publisher         *PublisherPatch         `json:"publisher,omitempty"`
	Collection        *CollectionPatch        `json:"collection,omitempty"`
}

// MetadataPatch is a partial Metadata.
type MetadataPatch struct {
	Title     *string `json:"title,omitempty"`
	Abstract  *string `json:"abstract,omitempty"`
	BookTitle *string `json:"book_title,omitempty"`
	Journal   *string `json:"journal,omitempty"`
}

// PublishedMetadataPatch is a partial PublishedMetadata.
type PublishedMetadataPatch struct {
	How  *string `json:"how,omitempty"`
	Date *string `json:"date,omitempty"`
}

// DocumentPatch is a partial Document.
type DocumentPatch struct {
	DOI    *string `json:"doi,omitempty"`
	Handle *string `json:"handle,omitempty"`
	URL    *string `json:"url,omitempty"`
}

// PublisherPatch is a partial Publisher.
type PublisherPatch struct {
	Institution  *string `json:"institution,omitempty"`
	Organization *string `json:"organization,omitempty"`
	Publisher    *string `json:"publisher,omitempty"`
	School       *string `json:"school,omitempty"`
	Address      *string `json:"address,omitempty"`
}

// CollectionPatch is a partial Collection.
type CollectionPatch struct {
	Edition *string `json:"edition,omitempty"`
	Series  *string `json:"series,omitempty"`
	Number  *string `json:"number,omitempty"`
	Volume  *string `json:"volume,omitempty"`
	Chapter *string `json:"chapter,omitempty"`
	Pages   *string `json:"pages,omitempty"`
}

// DeleteSelector picks the citations to delete. Exactly one of ID, Email
// and Citations must be set.
type DeleteSelector struct {
	ID        string   `json:"id,omitempty"`
	Email     string   `json:"email,omitempty"`
	Citations []string `json:"citations,omitempty"`
}

// Validate rejects selectors with zero or several selection modes.
func (s DeleteSelector) Validate() error {
	modes := 0
	if strings.TrimSpace(s.ID) != "" {
		modes++
	}
	if strings.TrimSpace(s.Email) != "" {
		modes++
	}
	if len(s.Citations) > 0 {
		modes++
	}
	switch modes {
	case 0:
		return fmt.Errorf("%w: one of id, email or citations is required", ErrInvalidDeleteSelector)
	case 1:
		return nil
	default:
		return fmt.Errorf("%w: id, email and citations are mutually exclusive", ErrInvalidDeleteSelector)
	}
}

// ListFilter narrows a citation listing. Zero values match everything.
type ListFilter struct {
	Kind  Kind
	Email string
}

// String returns a pointer to s, for building update payloads.
func String(s string) *string {
	return &s
}

func kindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
