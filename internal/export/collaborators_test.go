package export

import (
	"reflect"
	"testing"

	"github.com/matsen/citations/internal/citation"
)

func member(first, last, role string, precedence int) citation.Member {
	return citation.Member{
		Individual: citation.Individual{UserID: first + last, FirstName: first, LastName: last},
		Role:       role,
		Precedence: precedence,
	}
}

func TestJoinCollaborators(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{"none", nil, ""},
		{"one", []string{"A. Win"}, "A. Win"},
		{"two", []string{"A. Win", "B. Twin"}, "A. Win and B. Twin"},
		{"three", []string{"A. Win", "B. Twin", "C. Fin"}, "A. Win, B. Twin, and C. Fin"},
		{"four", []string{"A", "B", "C", "D"}, "A, B, C, and D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinCollaborators(tt.names); got != tt.want {
				t.Errorf("JoinCollaborators(%q) = %q, want %q", tt.names, got, tt.want)
			}
		})
	}
}

func TestCollaborators_Members(t *testing.T) {
	c := &citation.Citation{
		Members: []citation.Member{
			member("Ada", "Lovelace", "author", 0),
			member("Charles", "Babbage", "author", 1),
			member("", "Committee", "author", 2),
		},
	}

	got := Collaborators(c)
	want := []string{"A. Lovelace", "C. Babbage", "Committee"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collaborators() = %q, want %q", got, want)
	}
}

func TestCollaborators_ScopusReversedAndDeduplicated(t *testing.T) {
	c := &citation.Citation{
		ScopusID:      "85012345678",
		Collaborators: "Lovelace A.",
		Members: []citation.Member{
			member("Ada", "Lovelace", "author", 0),
			member("Charles", "Babbage", "author", 1),
		},
	}

	got := Collaborators(c)
	want := []string{"A. Lovelace", "C. Babbage"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collaborators() = %q, want %q", got, want)
	}
	if joined := JoinCollaborators(got); joined != "A. Lovelace and C. Babbage" {
		t.Errorf("joined = %q", joined)
	}
}

func TestCollaborators_ScopusStringIgnoredWithoutScopusID(t *testing.T) {
	c := &citation.Citation{
		Collaborators: "Hopper G.",
		Members:       []citation.Member{member("Ada", "Lovelace", "author", 0)},
	}

	got := Collaborators(c)
	want := []string{"A. Lovelace"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collaborators() = %q, want %q", got, want)
	}
}

func TestCollaborators_ScopusAuthorFirst(t *testing.T) {
	c := &citation.Citation{
		ScopusID:      "85012345678",
		Collaborators: "Hopper G.",
		Members:       []citation.Member{member("Ada", "Lovelace", "author", 0)},
	}

	got := Collaborators(c)
	want := []string{"G. Hopper", "A. Lovelace"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collaborators() = %q, want %q", got, want)
	}
}

func TestMemberName_MultibyteInitial(t *testing.T) {
	got := memberName(citation.Individual{FirstName: "Émilie", LastName: "du Châtelet"})
	if got != "É. du Châtelet" {
		t.Errorf("memberName() = %q", got)
	}
}
