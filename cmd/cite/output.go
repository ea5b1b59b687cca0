package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/citations/internal/citation"
	"github.com/matsen/citations/internal/export"
)

// Envelope metadata attached to every JSON response.
const (
	apiName    = "citations"
	apiVersion = "1.0"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(messageEnvelope("error", false, msg))
	}
	os.Exit(code)
}

// exitWithErr exits with the code matching err's kind.
func exitWithErr(err error) {
	exitWithError(exitCodeFor(err), "%v", err)
}

// exitCodeFor maps store and payload errors to exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, citation.ErrNoMatchingData):
		return ExitNotFound
	case errors.Is(err, citation.ErrInvalidRequest),
		errors.Is(err, citation.ErrInvalidDeleteSelector),
		errors.Is(err, citation.ErrInvalidUpdatePayload):
		return ExitDataError
	default:
		return ExitError
	}
}

// collectionEnvelope wraps data under its collection name.
func collectionEnvelope(status, collection string, data interface{}, count int) map[string]interface{} {
	return map[string]interface{}{
		"status":     status,
		"success":    true,
		"api":        apiName,
		"version":    apiVersion,
		"collection": collection,
		"count":      count,
		collection:   data,
	}
}

// messageEnvelope carries a status message instead of data.
func messageEnvelope(status string, success bool, message string) map[string]interface{} {
	return map[string]interface{}{
		"status":  status,
		"success": success,
		"api":     apiName,
		"version": apiVersion,
		"message": message,
	}
}

// CitationView is a citation as returned to callers: the aggregate plus its
// formatted string and publication flag.
type CitationView struct {
	*citation.Citation
	Formatted    string `json:"formatted"`
	WasPublished bool   `json:"was_published"`
}

func newCitationView(style export.Style, c *citation.Citation) CitationView {
	return CitationView{
		Citation:     c,
		Formatted:    style.Format(c),
		WasPublished: c.WasPublished(),
	}
}

func newCitationViews(style export.Style, cits []citation.Citation) []CitationView {
	views := make([]CitationView, len(cits))
	for i := range cits {
		views[i] = newCitationView(style, &cits[i])
	}
	return views
}

// printCitationHuman prints one citation in human-readable format.
func printCitationHuman(v CitationView) {
	outputHuman("%s [%s]\n", v.ID, v.Kind)
	if v.Formatted != "" {
		outputHuman("  %s\n", v.Formatted)
	} else if v.Metadata != nil {
		outputHuman("  %s (cannot be formatted)\n", v.Metadata.Title)
	}
	if v.WasPublished {
		doc := v.Document
		switch {
		case doc.DOI != "":
			outputHuman("  doi: %s\n", doc.DOI)
		case doc.URL != "":
			outputHuman("  url: %s\n", doc.URL)
		default:
			outputHuman("  handle: %s\n", doc.Handle)
		}
	}
}
