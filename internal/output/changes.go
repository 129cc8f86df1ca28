package output

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/unkn0wn-root/pickterm/internal/directory"
)

// Change describes how a reload altered the collection.
type Change struct {
	Added   int
	Removed int
	Unified string
}

func (c Change) Empty() bool {
	return c.Added == 0 && c.Removed == 0
}

// Changes diffs two collections line by line (id, name, email per record).
func Changes(before, after []directory.Record) Change {
	unified := udiff.Unified("before", "after", recordLines(before), recordLines(after))
	ch := Change{Unified: unified}
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			ch.Added++
		case strings.HasPrefix(line, "-"):
			ch.Removed++
		}
	}
	return ch
}
