package export

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/matsen/citations/internal/citation"
)

var (
	// @type{key,
	entryStartRegex = regexp.MustCompile(`@\w+\{([^,]+),`)
	// doi = {value} or doi = "value"
	doiFieldRegex = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// BibTeXIndex records the keys and DOIs already present in a .bib file.
type BibTeXIndex struct {
	Keys map[string]bool
	// DOIs maps normalized DOI values to entry keys.
	DOIs map[string]string
}

// NewBibTeXIndex creates an empty BibTeX index.
func NewBibTeXIndex() *BibTeXIndex {
	return &BibTeXIndex{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// Has reports whether the citation is already in the index. The DOI is
// matched first; the citation ID is the fallback.
func (idx *BibTeXIndex) Has(c *citation.Citation) bool {
	if doi := documentOf(c).DOI; doi != "" {
		if _, exists := idx.DOIs[normalizeDOI(doi)]; exists {
			return true
		}
	}
	return idx.Keys[c.ID]
}

// ParseBibTeXFile builds an index from an existing .bib file.
// A missing file yields an empty index.
func ParseBibTeXFile(path string) (*BibTeXIndex, error) {
	idx := NewBibTeXIndex()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var currentKey string
	for scanner.Scan() {
		line := scanner.Text()

		if matches := entryStartRegex.FindStringSubmatch(line); len(matches) > 1 {
			currentKey = strings.TrimSpace(matches[1])
			idx.Keys[currentKey] = true
		}
		if matches := doiFieldRegex.FindStringSubmatch(line); len(matches) > 1 {
			if doi := normalizeDOI(matches[1]); doi != "" && currentKey != "" {
				idx.DOIs[doi] = currentKey
			}
		}
	}

	return idx, scanner.Err()
}

// AppendBibTeX appends the citations not already present in the .bib file at
// path and returns how many were written.
func AppendBibTeX(path string, cits []citation.Citation) (int, error) {
	idx, err := ParseBibTeXFile(path)
	if err != nil {
		return 0, err
	}

	var fresh []citation.Citation
	for i := range cits {
		if !idx.Has(&cits[i]) {
			fresh = append(fresh, cits[i])
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if _, err := file.WriteString("\n" + ToBibTeXList(fresh)); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// normalizeDOI strips resolver prefixes and lowercases a DOI for comparison.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/", "DOI:", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(doi)
}
