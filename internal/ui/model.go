package ui

import (
	"context"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/errdef"
	"github.com/unkn0wn-root/pickterm/internal/loader"
	"github.com/unkn0wn-root/pickterm/internal/picker"
	"github.com/unkn0wn-root/pickterm/internal/search"
	"github.com/unkn0wn-root/pickterm/internal/sources"
	"github.com/unkn0wn-root/pickterm/internal/theme"
)

var _ tea.Model = Model{}

const (
	recentSourceLimit = 10
	minResultsHeight  = 3
	maxResultsHeight  = 12
	chromeHeight      = 10
)

// Loader loads one generation of the directory. *loader.Loader satisfies it.
type Loader interface {
	Load(ctx context.Context, generation uint64, url string) loader.Result
}

// SourceHistory remembers loaded source URLs. *sources.Store satisfies it.
type SourceHistory interface {
	Touch(ctx context.Context, url, status string) error
	URLs(ctx context.Context, limit int) ([]string, error)
}

type Config struct {
	Title        string
	Name         string
	Placeholder  string
	Source       string
	InitialQuery string
	Mode         search.SpaceMode
	Loader       Loader
	Sources      SourceHistory
	Theme        *theme.Theme
	Logger       *slog.Logger
	Context      context.Context
	OnSelect     func(directory.Record)
}

type Model struct {
	cfg    Config
	ctx    context.Context
	theme  theme.Theme
	logger *slog.Logger
	state  *picker.State

	input   textinput.Model
	results list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	showSource  bool
	sourceInput textinput.Model
	sourceKeys  sourceKeys
	recent      []string
	recentIdx   int

	lastLoaded []directory.Record
	lastSource string

	status    statusMsg
	confirmed bool
	quitting  bool
	width     int
	height    int

	copyText func(string) error
}

func New(cfg Config) Model {
	th := theme.DefaultTheme()
	if cfg.Theme != nil {
		th = *cfg.Theme
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 0
	input.PromptStyle = th.Prompt
	input.PlaceholderStyle = th.Placeholder

	delegate := recordDelegate{theme: &th}
	results := list.New(nil, delegate, 0, minResultsHeight)
	results.SetShowTitle(false)
	results.SetShowStatusBar(false)
	results.SetShowHelp(false)
	results.SetFilteringEnabled(false)
	results.SetShowPagination(false)
	results.DisableQuitKeybindings()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(th.Spinner))

	sourceInput := textinput.New()
	sourceInput.Prompt = "url › "
	sourceInput.CharLimit = 0
	sourceInput.Placeholder = "https://example.com/employees.json"
	sourceInput.PromptStyle = th.Prompt
	sourceInput.PlaceholderStyle = th.Placeholder

	m := Model{
		cfg:         cfg,
		ctx:         ctx,
		theme:       th,
		logger:      logger,
		state:       picker.New(cfg.Mode),
		input:       input,
		results:     results,
		spinner:     spin,
		help:        help.New(),
		keys:        defaultKeyMap(),
		sourceInput: sourceInput,
		sourceKeys:  defaultSourceKeys(),
		copyText:    clipboard.WriteAll,
	}
	m.state.SetSource(cfg.Source)
	m.state.Focus()
	m.input.Focus()
	if cfg.InitialQuery != "" {
		m.input.SetValue(cfg.InitialQuery)
		m.state.SetQuery(cfg.InitialQuery)
	}
	m.sync(true)
	return m
}

// Selected returns the current selection.
func (m Model) Selected() (directory.Record, bool) {
	return m.state.Selected()
}

// Confirmed reports whether the user accepted the selection before quitting.
func (m Model) Confirmed() bool {
	return m.confirmed
}

func (m Model) State() *picker.State {
	return m.state
}

// fetch loads the current source for the current generation.
func (m Model) fetch() tea.Cmd {
	gen := m.state.Generation()
	url := m.state.Source()
	ld := m.cfg.Loader
	hist := m.cfg.Sources
	ctx := m.ctx
	logger := m.logger
	if ld == nil {
		return func() tea.Msg {
			err := errdef.New(errdef.CodeUI, "no loader configured")
			return loadedMsg{result: loader.Result{Generation: gen, URL: url, Err: err, Status: loader.StatusFor(err)}}
		}
	}
	return func() tea.Msg {
		res := ld.Load(ctx, gen, url)
		if hist != nil {
			status := sources.StatusOK
			if res.Err != nil {
				status = string(errdef.CodeOf(res.Err))
			}
			if err := hist.Touch(ctx, url, status); err != nil {
				logger.Warn("record source failed", "url", url, "error", err)
			}
		}
		return loadedMsg{result: res}
	}
}

func (m Model) loadRecent() tea.Cmd {
	hist := m.cfg.Sources
	ctx := m.ctx
	if hist == nil {
		return nil
	}
	return func() tea.Msg {
		urls, err := hist.URLs(ctx, recentSourceLimit)
		return recentSourcesMsg{urls: urls, err: err}
	}
}

func (m Model) copySelection() tea.Cmd {
	rec, ok := m.state.Selected()
	if !ok {
		return statusCmd(statusWarn, "Nothing selected")
	}
	if rec.Email == "" || rec.Email == directory.MissingEmail {
		return statusCmd(statusWarn, "Selected record has no email")
	}
	copyText := m.copyText
	email := rec.Email
	return func() tea.Msg {
		if err := copyText(email); err != nil {
			return statusMsg{level: statusWarn, text: "Clipboard unavailable"}
		}
		return statusMsg{level: statusSuccess, text: "Copied " + email}
	}
}

func statusCmd(level statusLevel, text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{level: level, text: text}
	}
}

// sync pushes picker state into the widgets. resetCursor moves the list
// cursor back to the first match.
func (m *Model) sync(resetCursor bool) {
	m.input.Placeholder = m.state.Placeholder(m.cfg.Placeholder)
	m.resize()
	filtered := m.state.Filtered()
	idx := m.results.Index()
	m.results.SetItems(makeRecordItems(filtered))
	switch {
	case resetCursor || idx >= len(filtered):
		m.results.Select(0)
	default:
		m.results.Select(idx)
	}
	_, selected := m.state.Selected()
	m.keys.Clear.SetEnabled(m.state.Query() != "" || selected)
}

func (m *Model) resize() {
	width := m.width - 4
	if width < 20 {
		width = 60
	}
	height := len(m.state.Filtered())
	if limit := m.height - chromeHeight; m.height > 0 && limit < maxResultsHeight {
		if limit < minResultsHeight {
			limit = minResultsHeight
		}
		if height > limit {
			height = limit
		}
	}
	if height > maxResultsHeight {
		height = maxResultsHeight
	}
	if height < minResultsHeight {
		height = minResultsHeight
	}
	m.results.SetSize(width, height)
	m.input.Width = width - 4
	m.sourceInput.Width = width - 8
	m.help.Width = width
}
