package search

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/unkn0wn-root/pickterm/internal/directory"
)

// SpaceMode selects how spaces are stripped from matching keys.
type SpaceMode int

const (
	// SpaceAll removes every space from keys and queries.
	SpaceAll SpaceMode = iota
	// SpaceFirst removes only the first space of the key and leaves the
	// query untouched.
	SpaceFirst
)

// ParseSpaceMode maps config values to a SpaceMode. Unknown values fall back
// to SpaceAll.
func ParseSpaceMode(value string) (SpaceMode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return SpaceAll, true
	case "first", "legacy":
		return SpaceFirst, true
	default:
		return SpaceAll, false
	}
}

func (m SpaceMode) String() string {
	if m == SpaceFirst {
		return "first"
	}
	return "all"
}

// Initials returns the first user-perceived character of each name.
func Initials(first, last string) string {
	return firstGrapheme(first) + firstGrapheme(last)
}

func firstGrapheme(s string) string {
	if s == "" {
		return ""
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster
}

// Key builds the searchable key for a record: initials, then the name twice.
func Key(rec directory.Record, mode SpaceMode) string {
	raw := Initials(rec.FirstName, rec.LastName) + rec.Name + rec.Name
	return stripSpaces(lower(raw), mode)
}

// Normalize prepares a query for comparison against keys built with the
// same mode.
func Normalize(query string, mode SpaceMode) string {
	q := lower(query)
	if mode == SpaceAll {
		q = strings.ReplaceAll(q, " ", "")
	}
	return q
}

func stripSpaces(s string, mode SpaceMode) string {
	if mode == SpaceFirst {
		return strings.Replace(s, " ", "", 1)
	}
	return strings.ReplaceAll(s, " ", "")
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
