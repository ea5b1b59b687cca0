package export

import (
	"errors"
	"testing"

	"github.com/matsen/citations/internal/citation"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		raw      string
		yearOnly bool
		want     string
	}{
		{"2017", true, "2017"},
		{"2017", false, "2017"},
		{"2017-12-05", false, "Dec. 2017"},
		{"2017-12-05", true, "2017"},
		{"2017-12", false, "Dec. 2017"},
		{"2017-12", true, "2017"},
		{"2020-3-1", false, "Mar. 2020"},
		{"2016-05-01", false, "May. 2016"},
		{"", false, ""},
		{"Spring 2019", false, "Spring 2019"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := FormatDate(tt.raw, tt.yearOnly)
			if err != nil {
				t.Fatalf("FormatDate(%q, %v) unexpected error: %v", tt.raw, tt.yearOnly, err)
			}
			if got != tt.want {
				t.Errorf("FormatDate(%q, %v) = %q, want %q", tt.raw, tt.yearOnly, got, tt.want)
			}
		})
	}
}

func TestFormatDate_Malformed(t *testing.T) {
	for _, raw := range []string{"2017-02-30", "2017-13", "Fall-2017", "2017-12-05-01"} {
		t.Run(raw, func(t *testing.T) {
			_, err := FormatDate(raw, false)
			if !errors.Is(err, citation.ErrMalformedDate) {
				t.Errorf("FormatDate(%q) error = %v, want ErrMalformedDate", raw, err)
			}
		})
	}
}

func TestFormattedDate_FallsBackToFirstSegment(t *testing.T) {
	c := &citation.Citation{PublishedMetadata: &citation.PublishedMetadata{Date: "Fall-2017"}}
	if got := formattedDate(c, false); got != "Fall" {
		t.Errorf("formattedDate() = %q, want %q", got, "Fall")
	}

	if got := formattedDate(&citation.Citation{}, true); got != "" {
		t.Errorf("formattedDate() without published metadata = %q, want empty", got)
	}
}
