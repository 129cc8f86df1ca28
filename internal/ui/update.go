package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/pickterm/internal/output"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.fetch())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.resize()
		return m, nil
	case loadedMsg:
		m.handleLoaded(typed)
		return m, nil
	case recentSourcesMsg:
		if typed.err != nil {
			m.logger.Warn("recent sources unavailable", "error", typed.err)
		}
		m.recent = typed.urls
		m.recentIdx = -1
		return m, nil
	case statusMsg:
		m.status = typed
		return m, nil
	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case tea.KeyMsg:
		if m.showSource {
			return m.updateSourcePrompt(typed)
		}
		return m.handleKey(typed)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleLoaded(msg loadedMsg) {
	res := msg.result
	if !m.state.ApplyLoad(res) {
		m.logger.Debug("dropping stale load", "generation", res.Generation, "current", m.state.Generation())
		return
	}
	m.sync(false)
	if !res.OK() {
		m.status = statusMsg{level: statusError, text: m.state.Status()}
		return
	}

	if m.lastSource == res.URL && m.lastLoaded != nil {
		ch := output.Changes(m.lastLoaded, res.Records)
		if ch.Empty() {
			m.status = statusMsg{level: statusInfo, text: fmt.Sprintf("Reloaded %d records, no changes", len(res.Records))}
		} else {
			m.status = statusMsg{
				level: statusInfo,
				text:  fmt.Sprintf("Reloaded %d records (+%d -%d)", len(res.Records), ch.Added, ch.Removed),
			}
		}
	} else {
		m.status = statusMsg{level: statusSuccess, text: fmt.Sprintf("Loaded %d records", len(res.Records))}
	}
	m.lastLoaded = res.Records
	m.lastSource = res.URL
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		if !m.state.Loaded() {
			return m, statusCmd(statusWarn, "Still loading")
		}
		if _, ok := m.state.Selected(); !ok {
			return m, statusCmd(statusWarn, "Nothing selected")
		}
		m.confirmed = true
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		m.state.Reload()
		return m, m.startLoad()
	case key.Matches(msg, m.keys.Source):
		return m, m.openSourcePrompt()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelection()
	case key.Matches(msg, m.keys.Clear):
		m.state.Clear()
		m.input.SetValue("")
		m.sync(true)
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		m.state.ToggleOpen()
		return m, nil
	}

	if !m.state.Focused() {
		switch {
		case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Select):
			m.state.Focus()
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Blur):
			m.state.Collapse()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.state.Open() {
			m.results.CursorUp()
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if !m.state.Open() {
			m.state.ToggleOpen()
			return m, nil
		}
		m.results.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m, m.selectCurrent()
	case key.Matches(msg, m.keys.Blur):
		m.state.Blur()
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.state.SetQuery(after)
		m.sync(true)
	}
	return m, cmd
}

func (m *Model) selectCurrent() tea.Cmd {
	if !m.state.Open() || len(m.state.Filtered()) == 0 {
		return nil
	}
	if !m.state.SelectIndex(m.results.Index()) {
		return nil
	}
	rec, _ := m.state.Selected()
	m.input.SetValue(m.state.Query())
	m.input.CursorEnd()
	m.sync(false)
	m.logger.Info("item selected", "id", rec.ID, "name", rec.Name, "email", rec.Email)
	if m.cfg.OnSelect != nil {
		m.cfg.OnSelect(rec)
	}
	return statusCmd(statusSuccess, "Selected "+rec.Name)
}

// setSource switches to url with a fresh query and returns its fetch.
func (m *Model) setSource(url string) tea.Cmd {
	m.state.SetSource(url)
	m.state.Clear()
	if m.state.Focused() {
		m.state.Focus()
	}
	m.input.SetValue("")
	return m.startLoad()
}

func (m *Model) startLoad() tea.Cmd {
	m.sync(true)
	m.status = statusMsg{level: statusInfo, text: "Loading " + m.state.Source()}
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m *Model) openSourcePrompt() tea.Cmd {
	m.showSource = true
	m.recentIdx = -1
	m.sourceInput.SetValue(m.state.Source())
	m.sourceInput.CursorEnd()
	m.input.Blur()
	return tea.Batch(m.sourceInput.Focus(), m.loadRecent())
}

func (m *Model) closeSourcePrompt() tea.Cmd {
	m.showSource = false
	m.sourceInput.Blur()
	if m.state.Focused() {
		return m.input.Focus()
	}
	return nil
}

func (m Model) updateSourcePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.sourceKeys.Cancel):
		return m, m.closeSourcePrompt()
	case key.Matches(msg, m.sourceKeys.Accept):
		url := strings.TrimSpace(m.sourceInput.Value())
		if url == "" {
			return m, statusCmd(statusWarn, "Source URL is empty")
		}
		focus := m.closeSourcePrompt()
		return m, tea.Batch(focus, m.setSource(url))
	case key.Matches(msg, m.sourceKeys.Prev):
		m.cycleRecent(1)
		return m, nil
	case key.Matches(msg, m.sourceKeys.Next):
		m.cycleRecent(-1)
		return m, nil
	}
	var cmd tea.Cmd
	m.sourceInput, cmd = m.sourceInput.Update(msg)
	return m, cmd
}

// cycleRecent walks the recent list; index 0 is the most recent source.
func (m *Model) cycleRecent(step int) {
	if len(m.recent) == 0 {
		return
	}
	next := m.recentIdx + step
	if next < 0 {
		next = 0
	}
	if next >= len(m.recent) {
		next = len(m.recent) - 1
	}
	m.recentIdx = next
	m.sourceInput.SetValue(m.recent[next])
	m.sourceInput.CursorEnd()
}
