package export

import (
	"fmt"
	"strings"

	"github.com/matsen/citations/internal/citation"
)

// Formatter renders one kind of citation. Formatters are pure: they read the
// fully loaded aggregate and never fetch data.
type Formatter interface {
	Format(c *citation.Citation) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(c *citation.Citation) (string, error)

// Format calls f(c).
func (f FormatterFunc) Format(c *citation.Citation) (string, error) {
	return f(c)
}

// Style renders citations in one citation style.
type Style interface {
	Name() string
	Format(c *citation.Citation) string
}

// ieeeFormatters maps each citation kind to its IEEE formatter.
var ieeeFormatters = map[citation.Kind]Formatter{
	citation.KindArticle: FormatterFunc(formatArticle),
	citation.KindBook:    FormatterFunc(formatBook),
	citation.KindChapter: FormatterFunc(formatChapter),
	citation.KindThesis:  FormatterFunc(formatThesis),
}

// IEEE is the IEEE citation style.
type IEEE struct{}

// Name returns "ieee".
func (IEEE) Name() string { return "ieee" }

// FormatterFor returns the IEEE formatter registered for kind.
func (IEEE) FormatterFor(kind citation.Kind) (Formatter, bool) {
	f, ok := ieeeFormatters[kind]
	return f, ok
}

// Render formats c, reporting why a citation could not be formatted.
func (s IEEE) Render(c *citation.Citation) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: nil citation", citation.ErrUnrecognizedType)
	}
	f, ok := s.FormatterFor(c.Kind)
	if !ok {
		return "", fmt.Errorf("%w: %q", citation.ErrUnrecognizedType, c.Kind)
	}
	return f.Format(c)
}

// Format formats c. Citations that cannot be formatted yield "" so they never
// break the surrounding response.
func (s IEEE) Format(c *citation.Citation) string {
	formatted, err := s.Render(c)
	if err != nil {
		return ""
	}
	return formatted
}

// Styles lists the available citation styles by name.
var Styles = map[string]Style{
	"ieee": IEEE{},
}

// clauses assembles a formatted citation from optional parts.
type clauses struct {
	b strings.Builder
}

// write appends s unconditionally.
func (c *clauses) write(s string) {
	c.b.WriteString(s)
}

// add appends format with value substituted, only when value is non-empty.
func (c *clauses) add(format, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(&c.b, format, value)
}

func (c *clauses) String() string {
	return c.b.String()
}

// The accessors below treat an absent sub-entity as one with every field empty.

func metadataOf(c *citation.Citation) citation.Metadata {
	if c.Metadata == nil {
		return citation.Metadata{}
	}
	return *c.Metadata
}

func publisherOf(c *citation.Citation) citation.Publisher {
	if c.Publisher == nil {
		return citation.Publisher{}
	}
	return *c.Publisher
}

func collectionOf(c *citation.Citation) citation.Collection {
	if c.Collection == nil {
		return citation.Collection{}
	}
	return *c.Collection
}

func documentOf(c *citation.Citation) citation.Document {
	if c.Document == nil {
		return citation.Document{}
	}
	return *c.Document
}
