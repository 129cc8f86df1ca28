package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/loader"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	th := m.theme

	sections := []string{m.renderTitle(), m.renderInput()}
	switch {
	case m.showSource:
		sections = append(sections, m.renderSourcePrompt())
	case m.state.Open():
		sections = append(sections, m.renderResults())
	}
	if sel := m.renderSelection(); sel != "" {
		sections = append(sections, sel)
	}
	if line := m.renderStatus(); line != "" {
		sections = append(sections, line)
	}
	if m.showSource {
		sections = append(sections, th.Help.Render(m.help.View(m.sourceKeys)))
	} else {
		sections = append(sections, th.Help.Render(m.help.View(m.keys)))
	}
	return th.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderTitle() string {
	title := m.cfg.Title
	if title == "" {
		title = m.cfg.Name
	}
	return m.theme.Title.Render(title)
}

func (m Model) renderInput() string {
	style := m.theme.Input
	if m.state.Focused() && !m.showSource {
		style = m.theme.InputActive
	}
	body := m.input.View()
	if m.loading() {
		body = m.spinner.View() + " " + body
	}
	if m.width > 8 {
		style = style.Width(m.width - 8)
	}
	return style.Render(body)
}

func (m Model) loading() bool {
	return !m.state.Loaded() && m.state.Status() == loader.StatusLoading
}

func (m Model) renderResults() string {
	if !m.state.Loaded() {
		return ""
	}
	if len(m.state.Filtered()) == 0 {
		return m.theme.Status.Render("  No matches")
	}
	return m.results.View()
}

func (m Model) renderSelection() string {
	rec, ok := m.state.Selected()
	if !ok {
		return ""
	}
	return m.theme.Selected.Render("✓ "+rec.Name) + "  " + m.emailStyle(rec).Render(rec.Email)
}

func (m Model) emailStyle(rec directory.Record) lipgloss.Style {
	if rec.Email == directory.MissingEmail {
		return m.theme.MissingMail
	}
	return m.theme.Email
}

func (m Model) renderSourcePrompt() string {
	var b strings.Builder
	b.WriteString(m.sourceInput.View())
	if len(m.recent) > 0 {
		b.WriteString("\n")
		for i, url := range m.recent {
			marker := "  "
			style := m.theme.Status
			if i == m.recentIdx {
				marker = cursorMarker
				style = m.theme.Selected
			}
			b.WriteString("\n")
			b.WriteString(style.Render(marker + url))
		}
	}
	return m.theme.InputActive.Render(b.String())
}

func (m Model) renderStatus() string {
	text := strings.TrimSpace(m.status.text)
	if text == "" {
		return ""
	}
	// keep multi-line response bodies on one line
	text = strings.Join(strings.Fields(text), " ")
	switch m.status.level {
	case statusError:
		return m.theme.Error.Render(text)
	case statusWarn:
		return m.theme.Notice.Render(text)
	case statusSuccess:
		return m.theme.Success.Render(text)
	default:
		return m.theme.Status.Render(text)
	}
}
