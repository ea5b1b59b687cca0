// Package citation defines the citation aggregate and the payloads used to
// create, update and delete it.
package citation

import (
	"sort"
	"strconv"
	"strings"
)

// IDPrefix is the collection prefix every citation identifier carries.
const IDPrefix = "citations:"

// RoleAuthor is the membership role assigned to members attached at creation.
const RoleAuthor = "author"

// Citation is the aggregate root: a citation row plus its optional 1:1
// sub-records and its ordered member list.
type Citation struct {
	ID            string `json:"citation_id"`
	Kind          Kind   `json:"type"`
	ScopusID      string `json:"scopus_id,omitempty"`
	Collaborators string `json:"collaborators,omitempty"`
	Text          string `json:"citation_text,omitempty"`
	Note          string `json:"note,omitempty"`

	Metadata          *Metadata          `json:"metadata,omitempty"`
	PublishedMetadata *PublishedMetadata `json:"published_metadata,omitempty"`
	Document          *Document          `json:"document,omitempty"`
	Publisher         *Publisher         `json:"publisher,omitempty"`
	Collection        *Collection        `json:"collection,omitempty"`

	// Members are ordered by precedence, lowest first.
	Members []Member `json:"members"`
}

// Metadata holds the descriptive fields of a citation.
type Metadata struct {
	Title     string `json:"title"`
	Abstract  string `json:"abstract,omitempty"`
	BookTitle string `json:"book_title,omitempty"`
	Journal   string `json:"journal,omitempty"`
}

// PublishedMetadata records how and when a citation was published.
// Date is YYYY, YYYY-MM or YYYY-MM-DD.
type PublishedMetadata struct {
	How  string `json:"how,omitempty"`
	Date string `json:"date"`
}

// Document locates the published work.
type Document struct {
	DOI    string `json:"doi,omitempty"`
	Handle string `json:"handle,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Publisher holds publishing-body fields.
type Publisher struct {
	Institution  string `json:"institution,omitempty"`
	Organization string `json:"organization,omitempty"`
	Publisher    string `json:"publisher,omitempty"`
	School       string `json:"school,omitempty"`
	Address      string `json:"address,omitempty"`
}

// Collection holds the series/volume placement of a citation.
type Collection struct {
	Edition string `json:"edition,omitempty"`
	Series  string `json:"series,omitempty"`
	Number  string `json:"number,omitempty"`
	Volume  string `json:"volume,omitempty"`
	Chapter string `json:"chapter,omitempty"`
	Pages   string `json:"pages,omitempty"`
}

// Individual is a person that can be a member of citations.
type Individual struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ScopusID  string `json:"scopus_id,omitempty"`
	ORCID     string `json:"orcid_id,omitempty"`
}

// Member is an individual joined with its membership on one citation.
type Member struct {
	Individual
	Role       string `json:"role_position"`
	Precedence int    `json:"precedence"`
}

// WasPublished reports whether any document locator is filled in.
func (c *Citation) WasPublished() bool {
	if c.Document == nil {
		return false
	}
	return strings.TrimSpace(c.Document.DOI) != "" ||
		strings.TrimSpace(c.Document.Handle) != "" ||
		strings.TrimSpace(c.Document.URL) != ""
}

// FirstMemberWithRole returns the first member (in precedence order) holding role.
func (c *Citation) FirstMemberWithRole(role string) (Member, bool) {
	for _, m := range c.Members {
		if m.Role == role {
			return m, true
		}
	}
	return Member{}, false
}

// SortMembers orders members by precedence. Ties fall back to user ID so the
// order is deterministic.
func SortMembers(members []Member) {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Precedence != members[j].Precedence {
			return members[i].Precedence < members[j].Precedence
		}
		return members[i].UserID < members[j].UserID
	})
}

// NormalizeID accepts either a full "citations:<n>" identifier or the bare
// numeric part and returns the full form.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, IDPrefix) {
		return id
	}
	return IDPrefix + id
}

// FormatID builds the identifier for sequence value n.
func FormatID(n int64) string {
	return IDPrefix + strconv.FormatInt(n, 10)
}

// CreatePayload converts a stored aggregate back into a creation request.
// Members come out in precedence order whatever order c holds them in.
func (c *Citation) CreatePayload() CreatePayload {
	p := CreatePayload{
		Type:          string(c.Kind),
		ScopusID:      c.ScopusID,
		Collaborators: c.Collaborators,
		Text:          c.Text,
		Note:          c.Note,
		Document:      c.Document,
		Publisher:     c.Publisher,
		Collection:    c.Collection,
	}
	if c.Metadata != nil {
		p.Metadata = *c.Metadata
	}
	if c.PublishedMetadata != nil {
		p.PublishedMetadata = *c.PublishedMetadata
	}
	members := append([]Member(nil), c.Members...)
	SortMembers(members)
	for _, m := range members {
		p.Members = append(p.Members, MemberPayload{UserID: m.UserID, Precedence: m.Precedence, Role: m.Role})
	}
	return p
}
