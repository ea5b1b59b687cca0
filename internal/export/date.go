package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/matsen/citations/internal/citation"
)

// dateLayouts are the multi-segment published-date shapes, most specific first.
// Single-digit months and days are accepted.
var dateLayouts = []string{"2006-1-2", "2006-1"}

// FormatDate renders a published date. A value with no dash is treated as a
// bare year and returned unchanged. Otherwise the value must be a calendar
// date; yearOnly selects "2017" over "Dec. 2017".
func FormatDate(raw string, yearOnly bool) (string, error) {
	segments := strings.Split(raw, "-")
	if len(segments) == 1 {
		return raw, nil
	}

	t, err := parseDate(raw)
	if err != nil {
		return "", err
	}
	if yearOnly {
		return t.Format("2006"), nil
	}
	return t.Format("Jan") + ". " + t.Format("2006"), nil
}

func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", citation.ErrMalformedDate, raw)
}

// formattedDate renders the citation's published date, falling back to the
// first dash-separated segment when the date is malformed.
func formattedDate(c *citation.Citation, yearOnly bool) string {
	raw := ""
	if c.PublishedMetadata != nil {
		raw = c.PublishedMetadata.Date
	}
	formatted, err := FormatDate(raw, yearOnly)
	if err != nil {
		return strings.Split(raw, "-")[0]
	}
	return formatted
}
