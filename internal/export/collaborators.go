package export

import (
	"strings"
	"unicode/utf8"

	"github.com/matsen/citations/internal/citation"
)

// Collaborators builds the ordered, deduplicated list of collaborator names
// for a citation.
//
// Citations imported from Scopus carry the principal author as a "Last First"
// string; it is reversed and placed first. Every member then contributes
// "F. Last" in precedence order. Exact duplicates are dropped, keeping the
// first occurrence, which removes a Scopus author that is also a member.
func Collaborators(c *citation.Citation) []string {
	var names []string

	if c.ScopusID != "" {
		if tokens := strings.Fields(c.Collaborators); len(tokens) > 0 {
			for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
				tokens[i], tokens[j] = tokens[j], tokens[i]
			}
			names = append(names, strings.Join(tokens, " "))
		}
	}

	for _, m := range c.Members {
		names = append(names, memberName(m.Individual))
	}

	return dedupe(names)
}

// JoinCollaborators joins names IEEE style: "A", "A and B", "A, B, and C".
func JoinCollaborators(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}

	last := len(names) - 1
	return strings.Join(names[:last], ", ") + ", and " + names[last]
}

// memberName renders an individual as "F. Last".
func memberName(ind citation.Individual) string {
	first := strings.TrimSpace(ind.FirstName)
	last := strings.TrimSpace(ind.LastName)
	if first == "" {
		return last
	}
	r, _ := utf8.DecodeRuneInString(first)
	return string(r) + ". " + last
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
