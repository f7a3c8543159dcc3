package session

import (
	"errors"
	"sync"

	"shopseo/internal/domain/seo"
)

// ErrOpInFlight is returned when a bulk operation is requested while another
// one is still running for the same session.
var ErrOpInFlight = errors.New("session: a bulk operation is already running")

// State tracks one admin's in-progress edits for one area: which units are
// selected, which values they typed over the fetched ones, where they are in
// the paginated catalog, and whether a bulk operation is in flight.
//
// All methods are safe for concurrent use; handlers for the same shop may
// race during a bulk run.
type State struct {
	mu sync.Mutex

	selected  map[seo.UnitKey]struct{}
	overrides map[seo.UnitKey]seo.GeneratedText

	// cursors holds the end cursor of every page before the current one, so
	// Back can rewind without re-walking the catalog from the start.
	cursors []string
	page    int

	running bool
}

func NewState() *State {
	return &State{
		selected:  make(map[seo.UnitKey]struct{}),
		overrides: make(map[seo.UnitKey]seo.GeneratedText),
		page:      1,
	}
}

func (s *State) Select(key seo.UnitKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[key] = struct{}{}
}

func (s *State) Deselect(key seo.UnitKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, key)
}

func (s *State) SelectAll(keys []seo.UnitKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		s.selected[key] = struct{}{}
	}
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[seo.UnitKey]struct{})
}

func (s *State) Selected(key seo.UnitKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[key]
	return ok
}

func (s *State) SelectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// SetOverride records a manual edit for a unit. Values are clamped to the
// same limits enforced on generated text, so an over-long paste cannot sneak
// past validation later.
func (s *State) SetOverride(key seo.UnitKey, text seo.GeneratedText) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text.AltText = seo.ClampAltText(text.AltText)
	text.MetaTitle = seo.ClampMetaTitle(text.MetaTitle)
	text.MetaDescription = seo.ClampMetaDescription(text.MetaDescription)
	s.overrides[key] = text
}

func (s *State) Override(key seo.UnitKey) (seo.GeneratedText, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.overrides[key]
	return text, ok
}

func (s *State) ClearOverride(key seo.UnitKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, key)
}

// Reset drops selection, overrides and pagination, returning the session to
// its initial state. Used after a bulk apply and when the admin reloads.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *State) resetLocked() {
	s.selected = make(map[seo.UnitKey]struct{})
	s.overrides = make(map[seo.UnitKey]seo.GeneratedText)
	s.cursors = nil
	s.page = 1
}

// Advance records the end cursor of the current page and moves to the next
// one. Selection and overrides are page-scoped and reset wholesale, matching
// how the edit tables behave when the admin flips a page.
func (s *State) Advance(endCursor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = append(s.cursors, endCursor)
	s.page++
	s.selected = make(map[seo.UnitKey]struct{})
	s.overrides = make(map[seo.UnitKey]seo.GeneratedText)
}

// Back rewinds to the previous page. On the first page it is a no-op.
func (s *State) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cursors) == 0 {
		return
	}
	s.cursors = s.cursors[:len(s.cursors)-1]
	s.page--
	s.selected = make(map[seo.UnitKey]struct{})
	s.overrides = make(map[seo.UnitKey]seo.GeneratedText)
}

// Cursor returns the cursor to request the current page with. Empty on the
// first page.
func (s *State) Cursor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cursors) == 0 {
		return ""
	}
	return s.cursors[len(s.cursors)-1]
}

func (s *State) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// BeginOp marks a bulk operation as running. Only one may run at a time per
// session; a second request gets ErrOpInFlight instead of doubling the load
// on the remote APIs.
func (s *State) BeginOp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrOpInFlight
	}
	s.running = true
	return nil
}

func (s *State) EndOp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

func (s *State) OpInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ApplyToProduct folds any recorded override into the unit's edited fields so
// EffectiveMetaTitle and EffectiveMetaDescription pick them up.
func (s *State) ApplyToProduct(u seo.ProductUnit) seo.ProductUnit {
	text, ok := s.Override(u.Key())
	if !ok {
		return u
	}
	title, desc := text.MetaTitle, text.MetaDescription
	u.EditedMetaTitle = &title
	u.EditedMetaDesc = &desc
	return u
}

// ApplyToImage folds any recorded override into the unit's edited alt text.
func (s *State) ApplyToImage(u seo.ImageUnit) seo.ImageUnit {
	text, ok := s.Override(u.Key())
	if !ok {
		return u
	}
	alt := text.AltText
	u.EditedAltText = &alt
	return u
}

// Store hands out one State per shop and area, creating it on first use. The
// two edit tables paginate independently, so they never share a state.
type Store struct {
	mu     sync.Mutex
	states map[string]*State
}

func NewStore() *Store {
	return &Store{states: make(map[string]*State)}
}

func (st *Store) For(shop, area string) *State {
	key := shop + "|" + area
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.states[key]
	if !ok {
		s = NewState()
		st.states[key] = s
	}
	return s
}
