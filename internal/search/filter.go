package search

import (
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/directory"
)

// Filter returns the records whose key contains the query, in their original
// order. An empty query matches everything. The input slice is not modified.
func Filter(records []directory.Record, query string, mode SpaceMode) []directory.Record {
	return NewMatcher(records, mode).Filter(query)
}

// Matcher holds precomputed keys for one collection.
type Matcher struct {
	records []directory.Record
	keys    []string
	mode    SpaceMode
}

func NewMatcher(records []directory.Record, mode SpaceMode) *Matcher {
	keys := make([]string, len(records))
	for i, rec := range records {
		keys[i] = Key(rec, mode)
	}
	return &Matcher{records: records, keys: keys, mode: mode}
}

func (m *Matcher) Mode() SpaceMode {
	return m.mode
}

func (m *Matcher) Len() int {
	return len(m.records)
}

func (m *Matcher) Filter(query string) []directory.Record {
	q := Normalize(query, m.mode)
	out := make([]directory.Record, 0, len(m.records))
	for i, rec := range m.records {
		if strings.Contains(m.keys[i], q) {
			out = append(out, rec)
		}
	}
	return out
}
