// Package client implements the client-side view reconciler: one page of
// reviews plus pagination/sort/search state, kept in sync by merging
// broadcast events and by applying snapshot fetches.
//
// Reconciliation is a soft real-time UX aid, not an authoritative view.
// An Added event is prepended to the current page regardless of its true
// sort position; the transient ordering inconsistency resolves on the next
// explicit fetch. This tolerant policy is deliberate.
package client

import (
	"log/slog"
	"sync"
	"time"

	"github.com/revio/revio/pkg/core"
)

// Params are the view parameters a snapshot is fetched under. The struct
// is comparable so an in-flight fetch can be tagged with the params at
// issue time and checked against the current ones on completion.
type Params struct {
	Page     int
	PageSize int
	Sort     core.SortField
	Order    core.SortDirection
	Search   string
}

// DefaultParams mirrors core.DefaultQuery.
func DefaultParams() Params {
	q := core.DefaultQuery()
	return Params{Page: q.Page, PageSize: q.PageSize, Sort: q.Sort, Order: q.Order, Search: q.Search}
}

// Query converts the params to a core query.
func (p Params) Query() core.Query {
	return core.Query{Page: p.Page, PageSize: p.PageSize, Sort: p.Sort, Order: p.Order, Search: p.Search}
}

// View holds one client's current page of reviews. It is owned by a single
// client session; the mutex only guards against the session's own event
// goroutine racing its fetch path.
type View struct {
	mu         sync.Mutex
	params     Params
	items      []core.Review
	totalPages int

	undo       map[string]time.Time
	undoWindow time.Duration
	restore    RestoreFunc

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a View.
type Option func(*View)

// WithUndoWindow bounds how long a Deleted event stays undoable.
func WithUndoWindow(d time.Duration) Option {
	return func(v *View) { v.undoWindow = d }
}

// WithRestorer sets the function Undo uses to clear a review's DeletedAt,
// typically the mutation service or the HTTP client.
func WithRestorer(fn RestoreFunc) Option {
	return func(v *View) { v.restore = fn }
}

// WithLogger sets the logger for the view.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) { v.logger = logger }
}

// NewView creates a view with the given starting parameters.
func NewView(params Params, opts ...Option) *View {
	v := &View{
		params:     params,
		undo:       make(map[string]time.Time),
		undoWindow: DefaultUndoWindow,
		now:        time.Now,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Params returns the current view parameters.
func (v *View) Params() Params {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.params
}

// Items returns a copy of the current page.
func (v *View) Items() []core.Review {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := make([]core.Review, len(v.items))
	copy(items, v.items)
	return items
}

// TotalPages returns the page count from the last applied snapshot.
func (v *View) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPages
}

// SetPage changes the current page. The caller must re-fetch; navigation
// never reconciles in place.
func (v *View) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.params.Page = page
}

// SetSort changes the sort criteria. The caller must re-fetch.
func (v *View) SetSort(field core.SortField, order core.SortDirection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.params.Sort = field
	v.params.Order = order
}

// SetSearch changes the search term. The caller must re-fetch.
func (v *View) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.params.Search = term
}

// BeginFetch snapshots the current params as the tag for an outgoing
// query.
func (v *View) BeginFetch() Params {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.params
}

// ApplyPage installs a fetched snapshot if its tag still matches the
// current params. A stale response (the user navigated away while the
// query was in flight) is discarded and false is returned.
func (v *View) ApplyPage(tag Params, page core.Page) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if tag != v.params {
		v.logger.Debug("discarding stale snapshot", "page", tag.Page, "current", v.params.Page)
		return false
	}
	v.items = make([]core.Review, len(page.Reviews))
	copy(v.items, page.Reviews)
	v.totalPages = page.TotalPages
	return true
}

// ApplyEvent merges one broadcast event into the current page.
//
//   - Added: prepend to the page; if the id is already present (the event
//     raced a fetch that included it) the row is replaced instead, so a
//     record never shows twice.
//   - Updated: replace in place, preserving position; ignored when the
//     record is not on this page.
//   - Deleted: remove if present and, independent of membership, arm the
//     undo window for that id.
func (v *View) ApplyEvent(e core.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e.Kind {
	case core.EventAdded:
		if e.Review == nil {
			return
		}
		if !v.replaceLocked(*e.Review) {
			v.items = append([]core.Review{*e.Review}, v.items...)
		}
	case core.EventUpdated:
		if e.Review == nil {
			return
		}
		v.replaceLocked(*e.Review)
	case core.EventDeleted:
		v.removeLocked(e.ID)
		v.armUndoLocked(e.ID)
	}
}

func (v *View) replaceLocked(r core.Review) bool {
	for i := range v.items {
		if v.items[i].ID == r.ID {
			v.items[i] = r
			return true
		}
	}
	return false
}

func (v *View) removeLocked(id string) {
	for i := range v.items {
		if v.items[i].ID == id {
			v.items = append(v.items[:i], v.items[i+1:]...)
			return
		}
	}
}
