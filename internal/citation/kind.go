package citation

import (
	"fmt"
	"strings"
)

// Kind is the citation type tag.
type Kind string

// Recognized citation kinds.
const (
	KindArticle Kind = "article"
	KindBook    Kind = "book"
	KindChapter Kind = "chapter"
	KindThesis  Kind = "thesis"
)

// Kinds lists every recognized kind in display order.
var Kinds = []Kind{KindArticle, KindBook, KindChapter, KindThesis}

// ParseKind parses a citation type. Plural collection names ("articles")
// are accepted as well.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == string(k) || s == k.Plural() {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedType, s)
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Plural returns the collection name used in listings, e.g. "articles".
func (k Kind) Plural() string {
	if k == KindThesis {
		return "theses"
	}
	return string(k) + "s"
}

func (k Kind) String() string {
	return string(k)
}
