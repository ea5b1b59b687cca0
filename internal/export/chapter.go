package export

import (
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// formatChapter renders a chapter of an edited book:
//
//	A. Author, 'Title',  in <em>Book Title</em>, Publisher, 2017, p. 12-30.
func formatChapter(c *citation.Citation) (string, error) {
	meta := metadataOf(c)

	var out clauses
	out.write(JoinCollaborators(Collaborators(c)))
	out.write(", '" + strings.TrimSpace(meta.Title) + "', ")
	out.add(" in <em>%s</em>, ", meta.BookTitle)
	out.add("%s, ", publisherOf(c).Publisher)
	out.write(formattedDate(c, true))
	out.add(", p. %s", collectionOf(c).Pages)
	out.write(".")

	return out.String(), nil
}
