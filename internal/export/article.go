package export

import (
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// formatArticle renders
//
//	A. Author, "Title", <em>Journal</em>, v. 5, no. 2, pp. 10-20, Mar. 2020.
func formatArticle(c *citation.Citation) (string, error) {
	meta := metadataOf(c)
	coll := collectionOf(c)

	var out clauses
	out.write(JoinCollaborators(Collaborators(c)))
	out.write(`, "` + strings.TrimSpace(meta.Title) + `", `)
	out.add("<em>%s</em>, ", meta.Journal)
	out.add("v. %s, ", coll.Volume)
	out.add("no. %s, ", coll.Number)
	out.add("pp. %s, ", coll.Pages)
	out.write(formattedDate(c, false) + ".")

	return out.String(), nil
}
