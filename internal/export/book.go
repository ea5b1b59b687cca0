package export

import (
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// formatBook renders
//
//	A. Author, <em>Title</em>. Publisher, 2017, p. 120.
func formatBook(c *citation.Citation) (string, error) {
	var out clauses
	out.write(JoinCollaborators(Collaborators(c)))
	out.write(", <em>" + strings.TrimSpace(metadataOf(c).Title) + "</em>. ")
	out.add("%s, ", publisherOf(c).Publisher)
	out.write(formattedDate(c, true))
	out.add(", p. %s", collectionOf(c).Pages)
	out.write(".")

	return out.String(), nil
}
