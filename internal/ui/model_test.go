package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/errdef"
	"github.com/unkn0wn-root/pickterm/internal/loader"
	"github.com/unkn0wn-root/pickterm/internal/search"
)

const (
	sourceA = "https://a.example/employees.json"
	sourceB = "https://b.example/employees.json"
)

type fakeLoader struct {
	results map[string]loader.Result
	calls   int
}

func (f *fakeLoader) Load(_ context.Context, generation uint64, url string) loader.Result {
	f.calls++
	res := f.results[url]
	res.Generation = generation
	res.URL = url
	if res.Err != nil {
		res.Status = loader.StatusFor(res.Err)
		res.Records = []directory.Record{}
	}
	return res
}

type fakeHistory struct {
	touched []string
	urls    []string
}

func (h *fakeHistory) Touch(_ context.Context, url, status string) error {
	h.touched = append(h.touched, url+"="+status)
	return nil
}

func (h *fakeHistory) URLs(context.Context, int) ([]string, error) {
	return h.urls, nil
}

func people() []directory.Record {
	return []directory.Record{
		{ID: "1", FirstName: "John", LastName: "Doe", Name: "John Doe", Email: "john@x.com"},
		{ID: "2", FirstName: "Ann", LastName: "Lee", Name: "Ann Lee", Email: directory.MissingEmail},
		{ID: "3", FirstName: "Jane", LastName: "Dunn", Name: "Jane Dunn", Email: "jane@x.com"},
	}
}

func newTestModel(t *testing.T, cfg Config) (Model, *fakeLoader, *fakeHistory) {
	t.Helper()
	fl := &fakeLoader{results: map[string]loader.Result{
		sourceA: {Records: people()},
	}}
	hist := &fakeHistory{}
	if cfg.Source == "" {
		cfg.Source = sourceA
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = "Choose Manager..."
	}
	cfg.Title = "Favorite Manager"
	cfg.Loader = fl
	cfg.Sources = hist
	cfg.Mode = search.SpaceAll
	m := New(cfg)
	m.copyText = func(string) error { return nil }
	return m, fl, hist
}

// run executes cmd once and feeds the resulting picker messages back into
// the model. Timer based messages are ignored.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	switch msg.(type) {
	case loadedMsg, statusMsg, recentSourcesMsg:
		next, _ := m.Update(msg)
		return next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func keyMsg(kt tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: kt}
}

func loadedModel(t *testing.T) (Model, *fakeLoader, *fakeHistory) {
	t.Helper()
	m, fl, hist := newTestModel(t, Config{})
	m = run(t, m, m.fetch())
	if !m.state.Loaded() {
		t.Fatalf("expected model to be loaded")
	}
	return m, fl, hist
}

func TestLoadReplacesStatusPlaceholder(t *testing.T) {
	m, _, hist := newTestModel(t, Config{})
	if m.input.Placeholder != loader.StatusLoading {
		t.Fatalf("expected loading placeholder, got %q", m.input.Placeholder)
	}
	m = run(t, m, m.fetch())
	if m.input.Placeholder != "Choose Manager..." {
		t.Fatalf("expected configured placeholder, got %q", m.input.Placeholder)
	}
	if len(hist.touched) != 1 || hist.touched[0] != sourceA+"=ok" {
		t.Fatalf("expected source to be recorded, got %v", hist.touched)
	}
	if !strings.Contains(m.View(), "Loaded 3 records") {
		t.Fatalf("expected load status in view:\n%s", m.View())
	}
}

func TestLoadFailureShowsStatus(t *testing.T) {
	m, fl, hist := newTestModel(t, Config{})
	fl.results[sourceA] = loader.Result{Err: errdef.New(errdef.CodeNetwork, "refused")}
	m = run(t, m, m.fetch())
	if m.state.Loaded() {
		t.Fatalf("failed load must not mark loaded")
	}
	if m.input.Placeholder != loader.StatusFailed {
		t.Fatalf("expected failure placeholder, got %q", m.input.Placeholder)
	}
	if len(m.state.Filtered()) != 0 {
		t.Fatalf("expected empty results")
	}
	if !strings.Contains(m.View(), loader.StatusFailed) {
		t.Fatalf("expected failure status in view")
	}
	if hist.touched[0] != sourceA+"=network" {
		t.Fatalf("expected error code to be recorded, got %v", hist.touched)
	}
}

func TestTypingFilters(t *testing.T) {
	m, _, _ := loadedModel(t)
	m = typeText(t, m, "jd")
	got := m.state.Filtered()
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected matches %+v", got)
	}
	view := m.View()
	if !strings.Contains(view, "John Doe") || strings.Contains(view, "Ann Lee") {
		t.Fatalf("unexpected results view:\n%s", view)
	}
	m = typeText(t, m, "zz")
	if len(m.state.Filtered()) != 0 || !strings.Contains(m.View(), "No matches") {
		t.Fatalf("expected no matches")
	}
}

func TestEnterSelectsCurrentResult(t *testing.T) {
	var picked []directory.Record
	m, _, _ := newTestModel(t, Config{OnSelect: func(rec directory.Record) { picked = append(picked, rec) }})
	m = run(t, m, m.fetch())

	m = typeText(t, m, "j")
	m, _ = press(t, m, keyMsg(tea.KeyDown))
	m, cmd := press(t, m, keyMsg(tea.KeyEnter))
	m = run(t, m, cmd)

	rec, ok := m.Selected()
	if !ok || rec.ID != "3" {
		t.Fatalf("expected second match to be selected, got %+v", rec)
	}
	if len(picked) != 1 || picked[0].ID != "3" {
		t.Fatalf("expected OnSelect callback, got %v", picked)
	}
	if m.input.Value() != "Jane Dunn" || m.state.Open() {
		t.Fatalf("expected closed results with name as query, got %q open=%v", m.input.Value(), m.state.Open())
	}
	if !strings.Contains(m.View(), "✓ Jane Dunn") {
		t.Fatalf("expected selection line in view")
	}
}

func TestClearResetsQueryAndSelection(t *testing.T) {
	m, _, _ := loadedModel(t)
	m = typeText(t, m, "ann")
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	if _, ok := m.Selected(); !ok {
		t.Fatalf("expected selection")
	}
	m, _ = press(t, m, keyMsg(tea.KeyCtrlL))
	if _, ok := m.Selected(); ok || m.input.Value() != "" || m.state.Query() != "" {
		t.Fatalf("clear did not reset")
	}
	if len(m.state.Filtered()) != 3 {
		t.Fatalf("expected full list after clear")
	}
}

func TestToggleAndEscape(t *testing.T) {
	m, _, _ := loadedModel(t)
	if !m.state.Open() {
		t.Fatalf("focused picker should start open")
	}
	m, _ = press(t, m, keyMsg(tea.KeyTab))
	if m.state.Open() {
		t.Fatalf("tab should close results")
	}
	m, _ = press(t, m, keyMsg(tea.KeyTab))
	m, _ = press(t, m, keyMsg(tea.KeyEsc))
	if m.state.Focused() || !m.state.Open() {
		t.Fatalf("first esc only blurs")
	}
	m = typeText(t, m, "x")
	if m.state.Query() != "" {
		t.Fatalf("blurred input must ignore typing")
	}
	m, _ = press(t, m, keyMsg(tea.KeyEsc))
	if m.state.Open() {
		t.Fatalf("second esc collapses results")
	}
	m = typeText(t, m, "/")
	if !m.state.Focused() || !m.state.Open() {
		t.Fatalf("slash should focus and open")
	}
}

func TestConfirmRequiresSelection(t *testing.T) {
	m, _, _ := loadedModel(t)
	m, cmd := press(t, m, keyMsg(tea.KeyCtrlS))
	if m.Confirmed() {
		t.Fatalf("confirm without selection must not quit")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg.text != "Nothing selected" {
		t.Fatalf("expected warning, got %#v", msg)
	}

	m = typeText(t, m, "doe")
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	m, cmd = press(t, m, keyMsg(tea.KeyCtrlS))
	if !m.Confirmed() {
		t.Fatalf("expected confirmed selection")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit command")
	}
}

func TestQuitWithoutConfirm(t *testing.T) {
	m, _, _ := loadedModel(t)
	m, cmd := press(t, m, keyMsg(tea.KeyCtrlQ))
	if m.Confirmed() {
		t.Fatalf("quit must not confirm")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit command")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestCopySelectedEmail(t *testing.T) {
	m, _, _ := loadedModel(t)
	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}
	m = typeText(t, m, "jd")
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	m, cmd := press(t, m, keyMsg(tea.KeyCtrlY))
	m = run(t, m, cmd)
	if copied != "john@x.com" {
		t.Fatalf("expected email to be copied, got %q", copied)
	}
	if m.status.level != statusSuccess {
		t.Fatalf("expected success status, got %+v", m.status)
	}

	m.copyText = func(string) error { return errors.New("no clipboard") }
	m, cmd = press(t, m, keyMsg(tea.KeyCtrlY))
	m = run(t, m, cmd)
	if m.status.text != "Clipboard unavailable" {
		t.Fatalf("expected clipboard warning, got %+v", m.status)
	}
}

func TestCopyMissingEmailWarns(t *testing.T) {
	m, _, _ := loadedModel(t)
	m = typeText(t, m, "ann")
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	_, cmd := press(t, m, keyMsg(tea.KeyCtrlY))
	if msg, ok := cmd().(statusMsg); !ok || msg.level != statusWarn {
		t.Fatalf("expected warning for n/a email, got %#v", msg)
	}
}

func TestSourceChangeDropsStaleLoad(t *testing.T) {
	m, fl, _ := newTestModel(t, Config{})
	fl.results[sourceB] = loader.Result{Records: people()[:1]}
	stale := m.fetch()

	m, _ = press(t, m, keyMsg(tea.KeyCtrlO))
	if !m.showSource {
		t.Fatalf("expected source prompt")
	}
	m.sourceInput.SetValue(sourceB)
	m, cmd := press(t, m, keyMsg(tea.KeyEnter))
	if m.showSource || m.state.Source() != sourceB {
		t.Fatalf("expected prompt to close on new source")
	}

	m = run(t, m, stale)
	if m.state.Loaded() {
		t.Fatalf("stale load for old source must be dropped")
	}
	m = run(t, m, cmd)
	if !m.state.Loaded() || len(m.state.Collection()) != 1 {
		t.Fatalf("expected current source to load, got %d records", len(m.state.Collection()))
	}
}

func TestSourcePromptCyclesRecent(t *testing.T) {
	m, _, hist := loadedModel(t)
	hist.urls = []string{sourceA, sourceB}
	m, cmd := press(t, m, keyMsg(tea.KeyCtrlO))
	m = run(t, m, cmd)
	if len(m.recent) != 2 {
		t.Fatalf("expected recent sources, got %v", m.recent)
	}
	m, _ = press(t, m, keyMsg(tea.KeyUp))
	if m.sourceInput.Value() != sourceA {
		t.Fatalf("expected most recent first, got %q", m.sourceInput.Value())
	}
	m, _ = press(t, m, keyMsg(tea.KeyUp))
	m, _ = press(t, m, keyMsg(tea.KeyUp))
	if m.sourceInput.Value() != sourceB {
		t.Fatalf("expected cycling to stop at oldest, got %q", m.sourceInput.Value())
	}
	m, _ = press(t, m, keyMsg(tea.KeyDown))
	if m.sourceInput.Value() != sourceA {
		t.Fatalf("expected down to move back, got %q", m.sourceInput.Value())
	}
	m, _ = press(t, m, keyMsg(tea.KeyEsc))
	if m.showSource || m.state.Source() != sourceA {
		t.Fatalf("esc should cancel without switching")
	}
}

func TestReloadReportsChanges(t *testing.T) {
	m, fl, _ := loadedModel(t)
	m = typeText(t, m, "j")
	updated := append(people(), directory.Record{ID: "4", FirstName: "Jo", LastName: "Park", Name: "Jo Park", Email: "jo@x.com"})
	fl.results[sourceA] = loader.Result{Records: updated}

	m, cmd := press(t, m, keyMsg(tea.KeyCtrlR))
	if m.state.Loaded() {
		t.Fatalf("reload should reset loaded state")
	}
	m = run(t, m, cmd)
	if fl.calls != 2 {
		t.Fatalf("expected second load, got %d", fl.calls)
	}
	if !strings.Contains(m.status.text, "(+1 -0)") {
		t.Fatalf("expected change summary, got %q", m.status.text)
	}
	if m.state.Query() != "j" || len(m.state.Filtered()) != 3 {
		t.Fatalf("reload keeps the query, got %q with %d matches", m.state.Query(), len(m.state.Filtered()))
	}
}

func TestConfirmAfterReloadRemovedSelection(t *testing.T) {
	m, fl, _ := loadedModel(t)
	m = typeText(t, m, "doe")
	m, _ = press(t, m, keyMsg(tea.KeyEnter))
	if rec, ok := m.Selected(); !ok || rec.ID != "1" {
		t.Fatalf("expected John Doe selected, got %+v", rec)
	}

	fl.results[sourceA] = loader.Result{Records: people()[1:]}
	m, reload := press(t, m, keyMsg(tea.KeyCtrlR))

	m, cmd := press(t, m, keyMsg(tea.KeyCtrlS))
	if m.Confirmed() {
		t.Fatalf("confirm must wait for the reload")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg.text != "Still loading" {
		t.Fatalf("expected loading warning, got %#v", msg)
	}

	m = run(t, m, reload)
	if _, ok := m.Selected(); ok {
		t.Fatalf("selection should be dropped when its record is gone")
	}
	m, cmd = press(t, m, keyMsg(tea.KeyCtrlS))
	if m.Confirmed() {
		t.Fatalf("confirmed a record missing from the collection")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg.text != "Nothing selected" {
		t.Fatalf("expected nothing selected warning, got %#v", msg)
	}
}

func TestInitialQuery(t *testing.T) {
	m, _, _ := newTestModel(t, Config{InitialQuery: "lee"})
	m = run(t, m, m.fetch())
	if m.input.Value() != "lee" || len(m.state.Filtered()) != 1 {
		t.Fatalf("expected initial query to filter, got %d", len(m.state.Filtered()))
	}
}
