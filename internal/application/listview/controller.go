// Package listview drives one paginated, searchable resource list per session.
//
// A Controller moves Idle → Debouncing → Fetching → Success | Failed. Search
// input restarts a debounce timer; only the settled term is sent. Every fetch
// gets a generation number and results from older generations are dropped, so
// the latest query always wins. The last good page stays visible while a new
// one loads.
package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kiranfashion/console/internal/application/dto"
)

// Status is the state of a Controller.
type Status int

const (
	Idle Status = iota
	Debouncing
	Fetching
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case Fetching:
		return "fetching"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

func (s Status) pending() bool { return s == Debouncing || s == Fetching }

// ErrNoSelection is returned by ConfirmDelete when the dialog is closed.
var ErrNoSelection = errors.New("listview: no row selected for deletion")

// Query is the key a page is fetched by. Date (YYYY-MM-DD) filters a single day.
type Query struct {
	Page   int
	Search string
	Date   string
}

func (q Query) normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// ListQuery converts q to the backend query with the fixed page size.
func (q Query) ListQuery() dto.ListQuery {
	return dto.ListQuery{
		Page:      q.Page,
		Rows:      dto.PageSize,
		Search:    q.Search,
		StartDate: q.Date,
		EndDate:   q.Date,
	}
}

// Fetcher loads one page.
type Fetcher[T any] func(ctx context.Context, q dto.ListQuery) (dto.Page[T], error)

// Deleter removes one record and returns the backend message.
type Deleter func(ctx context.Context, id string) (string, error)

// Options tunes a Controller.
type Options struct {
	Debounce time.Duration    // search settle time
	FreshFor time.Duration    // a successful page younger than this is reused for the same query
	Now      func() time.Time // clock, for tests
}

// Snapshot is a consistent copy of the controller state.
type Snapshot[T any] struct {
	Status     Status
	Query      Query // committed query
	Input      string
	Page       dto.Page[T] // last successful page
	HasData    bool
	Err        error
	Generation uint64
	DeleteID   string // non-empty while the confirmation dialog is open
	Deleting   bool
}

// Pages returns the page count of the visible page.
func (s Snapshot[T]) Pages() int { return s.Page.Pages() }

// Controller runs the fetch state machine of one list view.
type Controller[T any] struct {
	base  context.Context
	fetch Fetcher[T]
	opts  Options

	mu        sync.Mutex
	status    Status
	input     string
	query     Query
	page      dto.Page[T]
	hasData   bool
	err       error
	gen       uint64
	inflight  *Query
	fetchedAt time.Time
	dataGen   uint64 // generation of the visible page
	minGen    uint64 // pages and fetches older than this are stale
	timer     *time.Timer
	timerSeq  uint64
	deleteID  string
	deleting  bool
	settled   chan struct{}
	closed    bool
}

// New builds an idle controller. Fetches run on base, which carries the session token.
func New[T any](base context.Context, fetch Fetcher[T], opts Options) *Controller[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.FreshFor <= 0 {
		opts.FreshFor = 2 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	settled := make(chan struct{})
	close(settled)
	return &Controller[T]{
		base:    base,
		fetch:   fetch,
		opts:    opts,
		query:   Query{Page: 1},
		settled: settled,
	}
}

// SetSearch records raw input and (re)starts the debounce timer. When it fires
// the term is committed and the list goes back to page 1.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.input = term
	c.status = Debouncing
	c.markPendingLocked()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerSeq++
	seq := c.timerSeq
	c.timer = time.AfterFunc(c.opts.Debounce, func() { c.fire(seq) })
}

func (c *Controller[T]) fire(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.timerSeq {
		return
	}
	c.timer = nil
	q := c.query
	q.Search = c.input
	q.Page = 1
	c.applyLocked(q)
}

// Apply commits q as given by the page URL, cancelling any pending debounce.
// Nothing is fetched when q matches a fresh page or an identical request in flight.
func (c *Controller[T]) Apply(q Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	q = q.normalize()
	c.input = q.Search
	c.applyLocked(q)
}

// SetPage moves to page p of the committed query.
func (c *Controller[T]) SetPage(p int) {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	q.Page = p
	c.Apply(q)
}

// Refresh refetches the committed query regardless of freshness.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.startLocked(c.query)
}

// Invalidate marks the visible page and any fetch in flight stale, so the
// next Apply fetches again even for the same query. Called after a mutation.
func (c *Controller[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minGen = c.gen + 1
}

func (c *Controller[T]) applyLocked(q Query) {
	if c.inflight != nil && *c.inflight == q && c.gen >= c.minGen {
		c.query = q
		c.status = Fetching
		return
	}
	if c.inflight == nil && q == c.query && c.hasData && c.err == nil && c.dataGen >= c.minGen &&
		c.opts.Now().Sub(c.fetchedAt) < c.opts.FreshFor {
		c.status = Success
		c.settleLocked()
		return
	}
	c.startLocked(q)
}

func (c *Controller[T]) startLocked(q Query) {
	c.gen++
	gen := c.gen
	c.query = q
	c.inflight = &q
	c.status = Fetching
	c.markPendingLocked()

	go func() {
		page, err := c.fetch(c.base, q.ListQuery())
		c.finish(gen, page, err)
	}()
}

func (c *Controller[T]) finish(gen uint64, page dto.Page[T], err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.closed {
		return
	}
	c.inflight = nil
	if c.status == Debouncing {
		// New input arrived meanwhile; keep the result but stay pending.
		if err == nil {
			c.page, c.hasData, c.err, c.fetchedAt, c.dataGen = page, true, nil, c.opts.Now(), gen
		}
		return
	}
	if err != nil {
		c.status = Failed
		c.err = err
	} else {
		c.status = Success
		c.page = page
		c.hasData = true
		c.err = nil
		c.fetchedAt = c.opts.Now()
		c.dataGen = gen
	}
	c.settleLocked()
}

// Wait blocks until the controller is neither debouncing nor fetching.
func (c *Controller[T]) Wait(ctx context.Context) (Snapshot[T], error) {
	for {
		c.mu.Lock()
		if !c.status.pending() {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return snap, nil
		}
		ch := c.settled
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
}

// Snapshot returns the current state without waiting.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Status:     c.status,
		Query:      c.query,
		Input:      c.input,
		Page:       c.page,
		HasData:    c.hasData,
		Err:        c.err,
		Generation: c.gen,
		DeleteID:   c.deleteID,
		Deleting:   c.deleting,
	}
}

// OpenDelete opens the confirmation dialog for id.
func (c *Controller[T]) OpenDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.deleting {
		c.deleteID = id
	}
}

// CancelDelete closes the dialog.
func (c *Controller[T]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.deleting {
		c.deleteID = ""
	}
}

// ConfirmDelete deletes the selected row, refetches the current page exactly
// once and closes the dialog. On failure the dialog stays open.
func (c *Controller[T]) ConfirmDelete(ctx context.Context, del Deleter) (string, error) {
	c.mu.Lock()
	id := c.deleteID
	if id == "" || c.deleting {
		c.mu.Unlock()
		return "", ErrNoSelection
	}
	c.deleting = true
	c.mu.Unlock()

	msg, err := del(ctx, id)

	c.mu.Lock()
	if err != nil {
		c.deleting = false
		c.mu.Unlock()
		return "", err
	}
	c.stopTimerLocked()
	c.startLocked(c.query)
	c.mu.Unlock()

	_, waitErr := c.Wait(ctx)

	c.mu.Lock()
	c.deleteID = ""
	c.deleting = false
	c.mu.Unlock()
	return msg, waitErr
}

// Close stops the timer and releases waiters. A closed controller ignores input.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
	c.inflight = nil
	if c.status.pending() {
		c.status = Idle
	}
	c.settleLocked()
}

func (c *Controller[T]) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerSeq++
}

func (c *Controller[T]) markPendingLocked() {
	select {
	case <-c.settled:
		c.settled = make(chan struct{})
	default:
	}
}

func (c *Controller[T]) settleLocked() {
	select {
	case <-c.settled:
	default:
		close(c.settled)
	}
}
