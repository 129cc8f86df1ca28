package picker

import (
	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/loader"
	"github.com/unkn0wn-root/pickterm/internal/search"
)

// State owns everything the picker renders. It is only changed through its
// methods; every change that can affect the visible list ends in recompute.
type State struct {
	loaded     bool
	status     string
	source     string
	generation uint64

	collection []directory.Record
	matcher    *search.Matcher
	filtered   []directory.Record

	query    string
	selected *directory.Record
	open     bool
	focused  bool
	mode     search.SpaceMode
}

func New(mode search.SpaceMode) *State {
	s := &State{mode: mode, status: loader.StatusLoading}
	s.reset()
	return s
}

// SetSource points the picker at url and starts a new generation. The
// returned generation must accompany the load result.
func (s *State) SetSource(url string) uint64 {
	s.source = url
	s.generation++
	s.loaded = false
	s.status = loader.StatusLoading
	s.reset()
	return s.generation
}

func (s *State) Reload() uint64 {
	return s.SetSource(s.source)
}

// ApplyLoad publishes a finished load. Results from an older generation are
// dropped and ApplyLoad reports false.
func (s *State) ApplyLoad(res loader.Result) bool {
	if res.Generation != s.generation {
		return false
	}
	if res.Err != nil {
		s.loaded = false
		s.status = res.Status
		if s.status == "" {
			s.status = loader.StatusFor(res.Err)
		}
		s.selected = nil
		s.reset()
		return true
	}
	s.loaded = true
	s.status = ""
	s.collection = res.Records
	if s.collection == nil {
		s.collection = []directory.Record{}
	}
	s.matcher = search.NewMatcher(s.collection, s.mode)
	s.reselect()
	s.recompute()
	return true
}

// reselect points the selection at the record with the same id in the
// current collection, or drops it when the id is gone.
func (s *State) reselect() {
	if s.selected == nil {
		return
	}
	id := s.selected.ID
	s.selected = nil
	for i := range s.collection {
		if s.collection[i].ID == id {
			rec := s.collection[i]
			s.selected = &rec
			return
		}
	}
}

func (s *State) SetQuery(q string) {
	s.query = q
	s.recompute()
}

// Select picks the record with the given id from the collection.
func (s *State) Select(id string) bool {
	for i := range s.collection {
		if s.collection[i].ID == id {
			s.choose(s.collection[i])
			return true
		}
	}
	return false
}

// SelectIndex picks the i-th record of the filtered view.
func (s *State) SelectIndex(i int) bool {
	if i < 0 || i >= len(s.filtered) {
		return false
	}
	s.choose(s.filtered[i])
	return true
}

func (s *State) choose(rec directory.Record) {
	s.selected = &rec
	s.open = false
	s.query = rec.Name
	s.recompute()
}

func (s *State) Clear() {
	s.query = ""
	s.selected = nil
	s.open = false
	s.recompute()
}

func (s *State) ToggleOpen() {
	s.open = !s.open
}

func (s *State) Focus() {
	s.focused = true
	s.open = true
}

func (s *State) Blur() {
	s.focused = false
}

// Collapse hides the results without touching focus.
func (s *State) Collapse() {
	s.open = false
}

// Placeholder is the configured placeholder once data is loaded and the
// status text before that.
func (s *State) Placeholder(configured string) string {
	if s.loaded {
		return configured
	}
	return s.status
}

func (s *State) reset() {
	s.collection = []directory.Record{}
	s.matcher = search.NewMatcher(s.collection, s.mode)
	s.recompute()
}

func (s *State) recompute() {
	if s.matcher == nil {
		s.matcher = search.NewMatcher(s.collection, s.mode)
	}
	s.filtered = s.matcher.Filter(s.query)
}

func (s *State) Query() string                  { return s.query }
func (s *State) Filtered() []directory.Record   { return s.filtered }
func (s *State) Collection() []directory.Record { return s.collection }
func (s *State) Open() bool                     { return s.open }
func (s *State) Focused() bool                  { return s.focused }
func (s *State) Loaded() bool                   { return s.loaded }
func (s *State) Status() string                 { return s.status }
func (s *State) Source() string                 { return s.source }
func (s *State) Generation() uint64             { return s.generation }
func (s *State) Mode() search.SpaceMode         { return s.mode }

// Selected returns a copy of the selected record.
func (s *State) Selected() (directory.Record, bool) {
	if s.selected == nil {
		return directory.Record{}, false
	}
	return *s.selected, true
}
