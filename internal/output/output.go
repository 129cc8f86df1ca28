// Package output renders directory records for non-interactive use.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/search"
	"github.com/unkn0wn-root/pickterm/internal/theme"
)

const (
	defaultMaxCell = 48
	ellipsis       = "…"
)

type Options struct {
	Theme   theme.Theme
	Color   bool
	Width   int
	MaxCell int
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Truncate shortens s to at most width terminal cells.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// Table writes records as a table with initials, name, email and id.
func Table(w io.Writer, records []directory.Record, opts Options) error {
	maxCell := opts.MaxCell
	if maxCell <= 0 {
		maxCell = defaultMaxCell
	}
	th := opts.Theme
	if !opts.Color {
		th = theme.Plain()
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			search.Initials(rec.FirstName, rec.LastName),
			Truncate(rec.Name, maxCell),
			Truncate(rec.Email, maxCell),
			Truncate(rec.ID, maxCell),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(th.TableBorder)).
		Headers("", "NAME", "EMAIL", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.TableHeader
			}
			if col == 2 && row >= 0 && row < len(records) && records[row].Email == directory.MissingEmail {
				return th.MissingMail.Padding(0, 1)
			}
			return th.TableCell
		})
	if opts.Width > 0 {
		t = t.Width(opts.Width)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// JSON writes v as indented JSON, highlighted when color is set.
func JSON(w io.Writer, v any, color bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if color {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, string(data), "json", "terminal256", "monokai"); err == nil {
			_, err = w.Write(buf.Bytes())
			return err
		}
	}
	_, err = w.Write(data)
	return err
}

// Summary is the one line footer printed under a table.
func Summary(shown, total int, source string) string {
	noun := "records"
	if total == 1 {
		noun = "record"
	}
	if shown == total {
		return fmt.Sprintf("%d %s from %s", total, noun, source)
	}
	return fmt.Sprintf("%d of %d %s from %s", shown, total, noun, source)
}

func recordLines(records []directory.Record) string {
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", rec.ID, rec.Name, rec.Email)
	}
	return b.String()
}
