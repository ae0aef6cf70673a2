// Package listctl owns the "which page, which filters, what data, still
// loading?" state of one paginated resource.
//
// Every change of the (page, filters) tuple starts exactly one fetch. Fetches
// are never cancelled; a fetch that has been superseded by a newer tuple is
// simply dropped when it returns, so out-of-order responses can never replace
// the data of the current query.
package listctl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
)

// Query identifies one fetch. Page is 1-based.
type Query[F comparable] struct {
	Page    int
	Filters F
}

// NoFilter is the filter type of resources without filters.
type NoFilter struct{}

type Fetcher[T any, F comparable] func(ctx context.Context, q Query[F]) (rbslot.Page[T], error)

// State is what views read.
type State[T any] struct {
	Items        []T
	Page         int
	TotalPages   int
	TotalRecords int
	Loading      bool
	Err          error
	FetchedAt    time.Time
}

type Options[T any] struct {
	// MaxAge makes Load refetch data older than this; zero disables it.
	MaxAge time.Duration
	// OnChange receives every state the controller applies.
	OnChange func(State[T])
	Logger   *slog.Logger
	Name     string
	Now      func() time.Time
}

type Controller[T any, F comparable] struct {
	fetch Fetcher[T, F]
	base  context.Context
	opts  Options[T]
	log   *slog.Logger

	mu      sync.Mutex
	query   Query[F]
	gen     uint64
	state   State[T]
	stale   bool
	settled bool
	done    chan struct{}
}

// New starts the fetch for initial immediately. base bounds every fetch the
// controller issues.
func New[T any, F comparable](base context.Context, fetch Fetcher[T, F], initial Query[F], opts Options[T]) *Controller[T, F] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	if opts.Name != "" {
		l = l.With(slog.String("list", opts.Name))
	}
	if initial.Page < 1 {
		initial.Page = 1
	}

	c := &Controller[T, F]{
		fetch: fetch,
		base:  base,
		opts:  opts,
		log:   l,
		query: initial,
	}
	c.mu.Lock()
	c.startLocked()
	c.mu.Unlock()
	return c
}

// startLocked supersedes whatever is in flight and fetches c.query.
func (c *Controller[T, F]) startLocked() {
	if c.done != nil && !c.settled {
		close(c.done)
	}
	c.gen++
	gen := c.gen
	q := c.query
	done := make(chan struct{})
	c.done = done
	c.settled = false
	c.stale = false
	c.state.Loading = true
	c.state.Err = nil
	c.state.Page = q.Page

	go func() {
		page, err := c.fetch(c.base, q)
		c.apply(gen, page, err)
	}()
}

func (c *Controller[T, F]) apply(gen uint64, page rbslot.Page[T], err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.Debug("list_fetch_superseded", slog.Uint64("gen", gen))
		return
	}

	st := State[T]{
		Page:      c.query.Page,
		FetchedAt: c.opts.Now(),
	}
	if err != nil {
		st.Items = []T{}
		st.Err = err
		c.log.Warn("list_fetch_failed", slog.Int("page", c.query.Page), slog.Any("err", err))
	} else {
		st.Items = page.Items
		if st.Items == nil {
			st.Items = []T{}
		}
		if page.Page > 0 {
			st.Page = page.Page
		}
		st.TotalPages = page.TotalPages
		st.TotalRecords = page.TotalRecords
	}
	c.state = st
	c.settled = true
	close(c.done)
	onChange := c.opts.OnChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(st)
	}
}

func (c *Controller[T, F]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Items = append([]T(nil), c.state.Items...)
	return st
}

func (c *Controller[T, F]) Query() Query[F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetPage accepts any positive page; values below 1 become 1. Bounds are the
// view's business, the server answers out-of-range pages itself.
func (c *Controller[T, F]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query.Page == n {
		return
	}
	c.query.Page = n
	c.startLocked()
}

// SetFilters always restarts pagination at page 1.
func (c *Controller[T, F]) SetFilters(f F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := Query[F]{Page: 1, Filters: f}
	if next == c.query {
		return
	}
	c.query = next
	c.startLocked()
}

// Invalidate marks the current query stale and refetches the same page.
func (c *Controller[T, F]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
	c.startLocked()
}

// Load applies q the way a page view mounting with q would: new filters
// reset the page, and the current query is refetched when it changed, was
// invalidated, failed, or is older than MaxAge. A fetch already in flight
// for q is reused.
func (c *Controller[T, F]) Load(q Query[F]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Filters != c.query.Filters {
		q.Page = 1
	}
	if q != c.query {
		c.query = q
		c.startLocked()
		return
	}
	if !c.settled {
		return
	}
	expired := c.opts.MaxAge > 0 && c.opts.Now().Sub(c.state.FetchedAt) > c.opts.MaxAge
	if c.stale || c.state.Err != nil || expired {
		c.startLocked()
	}
}

// Await blocks until the current query settles or ctx ends. It follows
// supersession: if the query changes while waiting, it waits for the new one.
func (c *Controller[T, F]) Await(ctx context.Context) (State[T], error) {
	for {
		c.mu.Lock()
		if c.settled {
			c.mu.Unlock()
			return c.State(), nil
		}
		done := c.done
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
}
