package search

import (
	"strings"
	"testing"

	"github.com/unkn0wn-root/pickterm/internal/directory"
)

func people() []directory.Record {
	return []directory.Record{
		{ID: "1", FirstName: "John", LastName: "Doe", Name: "John Doe", Email: "john@x.com"},
		{ID: "2", FirstName: "Jane", LastName: "Roe", Name: "Jane Roe", Email: "n/a"},
		{ID: "3", FirstName: "Dana", LastName: "Jones", Name: "Dana Van Jones", Email: "dana@x.com"},
		{ID: "4", FirstName: "Émile", LastName: "Zola", Name: "Émile Zola", Email: "n/a"},
	}
}

func ids(records []directory.Record) string {
	parts := make([]string, len(records))
	for i, rec := range records {
		parts[i] = rec.ID
	}
	return strings.Join(parts, ",")
}

func TestKey(t *testing.T) {
	rec := people()[0]
	if got := Key(rec, SpaceAll); got != "jdjohndoejohndoe" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Key(rec, SpaceFirst); got != "jdjohndoejohn doe" {
		t.Fatalf("unexpected legacy key %q", got)
	}
}

func TestInitialsUsesGraphemes(t *testing.T) {
	if got := Initials("Émile", "Zola"); got != "ÉZ" {
		t.Fatalf("unexpected initials %q", got)
	}
	if got := Initials("émile", "zola"); got != "éz" {
		t.Fatalf("expected combining sequence kept whole, got %q", got)
	}
	if got := Initials("", "Zola"); got != "Z" {
		t.Fatalf("unexpected initials for empty first name %q", got)
	}
}

func TestFilter(t *testing.T) {
	cases := []struct {
		name  string
		query string
		mode  SpaceMode
		want  string
	}{
		{name: "empty matches all", query: "", want: "1,2,3,4"},
		{name: "initials overlap doubled key", query: "jd", want: "1,3"},
		{name: "initials then first name", query: "jdj", want: "1"},
		{name: "reversed initials across names", query: "dj", want: "1,3"},
		{name: "surname", query: "doe", want: "1"},
		{name: "case insensitive", query: "DOE", want: "1"},
		{name: "no match", query: "zz", want: ""},
		{name: "full name with space", query: "John Doe", want: "1"},
		{name: "multi word name", query: "dana van jones", want: "3"},
		{name: "accented", query: "émile", want: "4"},
		{name: "legacy full name", query: "John Doe", mode: SpaceFirst, want: "1"},
		{name: "legacy keeps query spaces", query: "dana vanjones", mode: SpaceFirst, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Filter(people(), tc.query, tc.mode))
			if got != tc.want {
				t.Fatalf("query %q: expected [%s], got [%s]", tc.query, tc.want, got)
			}
		})
	}
}

func TestFilterMatchesKeySubstring(t *testing.T) {
	queries := []string{"", "j", "jo", "oe", "ne r", "van", "x", "janeroe", "roejane", "a"}
	for _, mode := range []SpaceMode{SpaceAll, SpaceFirst} {
		for _, q := range queries {
			included := map[string]bool{}
			for _, rec := range Filter(people(), q, mode) {
				included[rec.ID] = true
			}
			for _, rec := range people() {
				want := strings.Contains(Key(rec, mode), Normalize(q, mode))
				if included[rec.ID] != want {
					t.Fatalf("mode %s query %q record %s: included=%v want=%v", mode, q, rec.ID, included[rec.ID], want)
				}
			}
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := people()
	out := Filter(in, "jane", SpaceAll)
	if len(out) != 1 {
		t.Fatalf("expected one match, got %d", len(out))
	}
	if ids(in) != "1,2,3,4" {
		t.Fatalf("input modified: %s", ids(in))
	}
}

func TestParseSpaceMode(t *testing.T) {
	if m, ok := ParseSpaceMode("First"); !ok || m != SpaceFirst {
		t.Fatalf("expected first mode")
	}
	if m, ok := ParseSpaceMode(""); !ok || m != SpaceAll {
		t.Fatalf("expected default all mode")
	}
	if _, ok := ParseSpaceMode("bogus"); ok {
		t.Fatalf("expected bogus mode to be rejected")
	}
}
