// Package catalog holds the recipe list pipeline: the working set of
// recipes, the user's query and category, and the filtered view derived
// from them.
package catalog

import (
	"sync"
	"time"

	"recipebook/internal/recipe"
)

// DefaultDebounce is the quiet period after the last edit before the view
// is recomputed.
const DefaultDebounce = 300 * time.Millisecond

// Snapshot is the state a UI renders.
type Snapshot struct {
	Version    uint64          `json:"version"`
	Query      string          `json:"query"`
	Category   string          `json:"category"`
	Recipes    []recipe.Recipe `json:"recipes"`
	Count      int             `json:"count"`
	Categories []string        `json:"categories"`
}

// Listener receives a snapshot after every recomputation. Listeners are
// called one at a time, in recomputation order, without the filter's lock
// held. A listener must not call methods of the Filter that produced the
// snapshot; everything it needs is in the snapshot.
type Listener func(Snapshot)

// Option configures a Filter.
type Option func(*Filter)

// WithDebounce sets the debounce window. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(f *Filter) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// WithScheduler replaces the runtime timer, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(f *Filter) {
		if s != nil {
			f.scheduler = s
		}
	}
}

// WithListener registers the recomputation listener.
func WithListener(l Listener) Option {
	return func(f *Filter) {
		f.listener = l
	}
}

// Filter maintains a base collection of recipes, the current query and
// selected category, and the filtered view.
//
// Query and category edits share one debounce timer: each edit cancels the
// pending recomputation and schedules a new one, so a burst of edits
// produces a single recomputation once the edits stop. Loading a new
// collection recomputes immediately.
type Filter struct {
	debounce  time.Duration
	scheduler Scheduler
	listener  Listener

	mu         sync.Mutex
	base       []recipe.Recipe
	query      string
	category   string
	view       []recipe.Recipe
	categories []string
	pending    Timer
	generation uint64 // bumped on every schedule/cancel; stale timers compare against it
	version    uint64
	closed     bool

	notifyMu sync.Mutex
}

// NewFilter creates a Filter with an empty base collection, an empty query
// and the AllCategories selection.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{
		debounce:  DefaultDebounce,
		scheduler: SystemScheduler{},
		category:  AllCategories,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.view = []recipe.Recipe{}
	f.categories = DeriveCategories(nil)
	return f
}

// Load replaces the base collection and recomputes the categories and the
// view with the current query and category.
func (f *Filter) Load(records []recipe.Recipe) {
	f.mu.Lock()
	f.base = append(make([]recipe.Recipe, 0, len(records)), records...)
	f.categories = DeriveCategories(f.base)
	f.recomputeAndNotify()
}

// SetQuery stores the query and schedules a recomputation.
func (f *Filter) SetQuery(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = text
	f.scheduleLocked()
}

// SetCategory stores the selected category and schedules a recomputation.
// Unknown categories are accepted and simply match nothing.
func (f *Filter) SetCategory(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.category = name
	f.scheduleLocked()
}

// Flush runs a pending recomputation immediately. It reports whether one
// was pending.
func (f *Filter) Flush() bool {
	f.mu.Lock()
	if f.pending == nil {
		f.mu.Unlock()
		return false
	}
	f.cancelLocked()
	f.recomputeAndNotify()
	return true
}

// Pending reports whether a recomputation is scheduled.
func (f *Filter) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending != nil
}

// Close cancels any pending recomputation. Edits after Close are stored but
// never recomputed; Load still works.
func (f *Filter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelLocked()
	f.closed = true
}

// Snapshot returns a copy of the current state.
func (f *Filter) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// View returns a copy of the filtered view.
func (f *Filter) View() []recipe.Recipe {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recipe.Recipe(nil), f.view...)
}

// Count returns the size of the filtered view.
func (f *Filter) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.view)
}

// Categories returns a copy of the derived category list.
func (f *Filter) Categories() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.categories...)
}

// Query returns the stored query.
func (f *Filter) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Category returns the selected category.
func (f *Filter) Category() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.category
}

// Recomputations returns how many times the view has been recomputed.
func (f *Filter) Recomputations() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

func (f *Filter) scheduleLocked() {
	if f.closed {
		return
	}
	f.cancelLocked()
	gen := f.generation
	f.pending = f.scheduler.AfterFunc(f.debounce, func() { f.fire(gen) })
}

func (f *Filter) cancelLocked() {
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
	f.generation++
}

func (f *Filter) fire(gen uint64) {
	f.mu.Lock()
	if gen != f.generation || f.pending == nil {
		// superseded by a newer edit, a flush or Close
		f.mu.Unlock()
		return
	}
	f.pending = nil
	f.recomputeAndNotify()
}

// recomputeAndNotify must be called with f.mu held; it releases it.
func (f *Filter) recomputeAndNotify() {
	f.view = ComputeView(f.base, f.query, f.category)
	f.version++
	snap := f.snapshotLocked()

	f.notifyMu.Lock()
	f.mu.Unlock()
	defer f.notifyMu.Unlock()

	if f.listener != nil {
		f.listener(snap)
	}
}

func (f *Filter) snapshotLocked() Snapshot {
	return Snapshot{
		Version:    f.version,
		Query:      f.query,
		Category:   f.category,
		Recipes:    append([]recipe.Recipe{}, f.view...),
		Count:      len(f.view),
		Categories: append([]string(nil), f.categories...),
	}
}
