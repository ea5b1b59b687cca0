package export

import (
	"fmt"
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// formatThesis renders the thesis author only, with a month-year date:
//
//	A. Author, "Title", May. 2016.
func formatThesis(c *citation.Citation) (string, error) {
	author, ok := c.FirstMemberWithRole(citation.RoleAuthor)
	if !ok {
		return "", fmt.Errorf("%w: %s", citation.ErrNoThesisAuthor, c.ID)
	}

	var out clauses
	out.write(memberName(author.Individual))
	out.write(`, "` + strings.TrimSpace(metadataOf(c).Title) + `", `)
	out.write(formattedDate(c, false) + ".")

	return out.String(), nil
}
