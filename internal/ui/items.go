package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/search"
	"github.com/unkn0wn-root/pickterm/internal/theme"
)

const cursorMarker = "▸ "

type recordItem struct {
	record directory.Record
}

func (i recordItem) FilterValue() string { return i.record.Name }

func makeRecordItems(records []directory.Record) []list.Item {
	items := make([]list.Item, len(records))
	for idx, rec := range records {
		items[idx] = recordItem{record: rec}
	}
	return items
}

// recordDelegate renders one record per line: avatar, name, email.
type recordDelegate struct {
	theme *theme.Theme
}

func (d recordDelegate) Height() int                         { return 1 }
func (d recordDelegate) Spacing() int                        { return 0 }
func (d recordDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(recordItem)
	if !ok {
		return
	}
	rec := it.record
	th := d.theme

	prefix := "  "
	name := th.Name.Render(rec.Name)
	if index == m.Index() {
		prefix = cursorMarker
		name = th.Selected.Render(rec.Name)
	}
	email := th.Email.Render(rec.Email)
	if rec.Email == directory.MissingEmail {
		email = th.MissingMail.Render(rec.Email)
	}
	avatar := th.Avatar.Render(search.Initials(rec.FirstName, rec.LastName))

	line := fmt.Sprintf("%s%s %s  %s", prefix, avatar, name, email)
	if width := m.Width(); width > 0 && ansi.StringWidth(line) > width {
		line = ansi.Truncate(line, width, "…")
	}
	fmt.Fprint(w, line)
}
