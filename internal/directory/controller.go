// Package directory keeps the client-side state of the advocate listing:
// search term, page metadata, loading flag and the records on screen.
//
// Every fetch gets a generation number. Starting a fetch cancels the one in
// flight, and a response whose generation is no longer current is dropped, so
// a slow reply for an old search term can never overwrite a newer one.
package directory

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/simp-lee/advocates/internal/domain"
)

// DefaultLimit is the page size requested when none is configured.
const DefaultLimit = 9

// Fetcher loads one page of records. *client.Client satisfies it.
type Fetcher interface {
	List(ctx context.Context, req domain.SearchRequest) (domain.AdvocatePage, error)
}

// State is a snapshot of what the listing shows.
type State struct {
	Search     string
	Pagination domain.PageMeta
	Loading    bool
	Records    []domain.Advocate

	// Generation is the fetch the snapshot belongs to.
	Generation uint64
	// Loaded is the generation Records and Pagination came from. It only
	// moves when a fetch succeeds.
	Loaded uint64
	// Version increases with every change and orders notifications.
	Version uint64
}

// Empty reports whether a finished fetch returned nothing.
func (s State) Empty() bool {
	return !s.Loading && s.Generation > 0 && len(s.Records) == 0
}

// Controller drives the listing. It is safe for concurrent use.
type Controller struct {
	fetcher Fetcher
	limit   int
	log     *slog.Logger
	notify  func(State)

	mu        sync.Mutex
	state     State
	requested domain.SearchRequest
	loaded    domain.SearchRequest
	cancel    context.CancelFunc
	closed    bool
	wg        sync.WaitGroup

	notifyMu  sync.Mutex
	delivered uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLimit sets the page size. Ignored when n <= 0.
func WithLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNotify registers fn to receive every state change. Calls are
// serialised and never go backwards in Version. fn must not call back into
// the controller.
func WithNotify(fn func(State)) Option {
	return func(c *Controller) {
		c.notify = fn
	}
}

// New creates a Controller. Call Mount to load the first page.
func New(f Fetcher, opts ...Option) *Controller {
	if f == nil {
		panic("directory.New: fetcher must not be nil")
	}
	c := &Controller{
		fetcher: f,
		limit:   DefaultLimit,
		log:     slog.Default(),
		state:   State{Records: []domain.Advocate{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mount loads page 1 with an empty search.
func (c *Controller) Mount() {
	c.start("", 1)
}

// SetSearch replaces the search term and loads its first page.
func (c *Controller) SetSearch(term string) {
	c.start(term, 1)
}

// Reset clears the search term and loads page 1.
func (c *Controller) Reset() {
	c.start("", 1)
}

// GoToPage loads page n for the current search term.
func (c *Controller) GoToPage(n int) {
	c.mu.Lock()
	term := c.state.Search
	c.mu.Unlock()
	c.start(term, n)
}

// Next loads the following page. It reports false when there is none, or
// while the shown totals belong to a different search term than the one
// being loaded.
func (c *Controller) Next() bool {
	c.mu.Lock()
	term, page := c.state.Search, c.requested.Page
	ok := c.state.Loaded > 0 && c.loaded.Search == term && page < c.state.Pagination.TotalPages
	c.mu.Unlock()
	if !ok {
		return false
	}
	c.start(term, page+1)
	return true
}

// Prev loads the preceding page. It reports false on page 1.
func (c *Controller) Prev() bool {
	c.mu.Lock()
	term, page := c.state.Search, c.requested.Page
	c.mu.Unlock()
	if page <= 1 {
		return false
	}
	c.start(term, page-1)
	return true
}

// Close cancels the fetch in flight and waits for it to return. Later calls
// to the controller are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) start(term string, page int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	req := domain.SearchRequest{Search: term, Page: page, Limit: c.limit}
	c.requested = req
	c.state.Generation++
	c.state.Search = term
	c.state.Loading = true
	snap := c.bump()
	gen := c.state.Generation

	c.wg.Add(1)
	c.mu.Unlock()

	c.publish(snap)
	go c.fetch(ctx, cancel, gen, req)
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, req domain.SearchRequest) {
	defer c.wg.Done()
	defer cancel()

	page, err := c.fetcher.List(ctx, req)

	c.mu.Lock()
	if gen != c.state.Generation || c.closed {
		c.mu.Unlock()
		c.log.Debug("stale listing response dropped",
			slog.Uint64("generation", gen),
			slog.String("search", req.Search),
			slog.Int("page", req.Page),
		)
		return
	}

	c.state.Loading = false
	if err != nil {
		snap := c.bump()
		c.mu.Unlock()
		if !errors.Is(err, context.Canceled) {
			c.log.Error("load advocates",
				slog.String("search", req.Search),
				slog.Int("page", req.Page),
				slog.Any("error", err),
			)
		}
		c.publish(snap)
		return
	}

	records := page.Data
	if records == nil {
		records = []domain.Advocate{}
	}
	c.state.Records = records
	c.state.Pagination = page.Pagination
	c.state.Loaded = gen
	c.loaded = req
	snap := c.bump()
	c.mu.Unlock()

	c.publish(snap)
}

// bump advances Version and returns a snapshot. c.mu must be held.
func (c *Controller) bump() State {
	c.state.Version++
	return c.state
}

func (c *Controller) publish(s State) {
	if c.notify == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if s.Version <= c.delivered {
		return
	}
	c.delivered = s.Version
	c.notify(s)
}
