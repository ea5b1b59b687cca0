// Package export renders citation aggregates: IEEE formatted strings for
// display and BibTeX entries for reuse in LaTeX documents.
package export

import (
	"fmt"
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// bibtexTypes maps citation kinds to BibTeX entry types.
var bibtexTypes = map[citation.Kind]string{
	citation.KindArticle: "article",
	citation.KindBook:    "book",
	citation.KindChapter: "incollection",
	citation.KindThesis:  "phdthesis",
}

// ToBibTeX converts a citation to a BibTeX entry. The citation ID is the key.
func ToBibTeX(c *citation.Citation) string {
	entryType, ok := bibtexTypes[c.Kind]
	if !ok {
		entryType = "misc"
	}
	meta := metadataOf(c)
	pub := publisherOf(c)
	coll := collectionOf(c)
	doc := documentOf(c)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, c.ID))

	if authors := bibtexAuthors(c.Members); authors != "" {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", authors))
	}
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(strings.TrimSpace(meta.Title))))

	writeField(&b, "journal", meta.Journal)
	writeField(&b, "booktitle", meta.BookTitle)
	writeField(&b, "publisher", pub.Publisher)
	writeField(&b, "school", pub.School)
	writeField(&b, "institution", pub.Institution)
	writeField(&b, "organization", pub.Organization)
	writeField(&b, "address", pub.Address)
	writeField(&b, "edition", coll.Edition)
	writeField(&b, "series", coll.Series)
	writeField(&b, "volume", coll.Volume)
	writeField(&b, "number", coll.Number)
	writeField(&b, "chapter", coll.Chapter)
	writeField(&b, "pages", coll.Pages)

	year, month := bibtexDate(c)
	if year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", year))
	}
	if month > 0 {
		b.WriteString(fmt.Sprintf("  month = {%d},\n", month))
	}

	// Locators are not escaped; DOIs and URLs are verbatim.
	if doc.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", doc.DOI))
	}
	if doc.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", doc.URL))
	}

	writeField(&b, "abstract", meta.Abstract)
	writeField(&b, "note", c.Note)

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple citations to BibTeX format.
func ToBibTeXList(cits []citation.Citation) string {
	var entries []string
	for i := range cits {
		entries = append(entries, ToBibTeX(&cits[i]))
	}
	return strings.Join(entries, "\n")
}

func writeField(b *strings.Builder, name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, escapeLatex(value)))
}

// bibtexDate splits the published date into a year and an optional month.
func bibtexDate(c *citation.Citation) (string, int) {
	if c.PublishedMetadata == nil {
		return "", 0
	}
	raw := strings.TrimSpace(c.PublishedMetadata.Date)
	if !strings.Contains(raw, "-") {
		return raw, 0
	}
	t, err := parseDate(raw)
	if err != nil {
		return strings.Split(raw, "-")[0], 0
	}
	return t.Format("2006"), int(t.Month())
}

// bibtexAuthors formats members in BibTeX style: "Last, First and Last, First".
func bibtexAuthors(members []citation.Member) string {
	var formatted []string
	for _, m := range members {
		if m.FirstName != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", m.LastName, m.FirstName))
		} else {
			formatted = append(formatted, m.LastName)
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// & goes first so later replacements are not escaped twice.
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
