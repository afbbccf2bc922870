// Package session implements the search session controller: the state
// machine that turns user-edited search parameters into debounced,
// cancellable fetches against the metadata provider, merges paginated
// responses, applies client-side post-filters, derives facet lists from
// the accumulated results and keeps the published view consistent under
// request cancellation.
//
// One Controller owns one logical search session. All state lives
// behind the controller's mutex; callers interact only through
// UpdateParams, Submit, LoadMore and Snapshot, and observe changes via
// the snapshot hub. At most one outbound request is current at any
// time: starting a new fetch cancels the previous one's context and
// bumps a sequence number so a late-arriving superseded response can
// never mutate state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/openshelf/openshelf/pkg/book"
	"github.com/openshelf/openshelf/pkg/log"
	"github.com/openshelf/openshelf/pkg/openlibrary"
)

var logger = log.For("session")

// Searcher is the provider dependency of the controller. It is
// satisfied by *openlibrary.Client and by test fakes.
type Searcher interface {
	Search(ctx context.Context, q openlibrary.Query) (*openlibrary.Result, error)
}

// Snapshot is a read-only view of the session state, published after
// every state change. The Books slice is owned by the snapshot and
// never mutated afterwards.
type Snapshot struct {
	Params   Params
	Books    []book.Book
	NumFound int
	Facets   Facets
	Loading  bool
	Err      string
	// Searched reports that at least one fetch has completed, so an
	// empty Books slice means "no results" rather than "nothing asked".
	Searched bool
}

// HasMore reports whether the server claims more matches than the
// session has accumulated.
func (s Snapshot) HasMore() bool {
	return len(s.Books) < s.NumFound
}

// NoResults reports the distinct empty-result state: a completed,
// error-free search that matched nothing.
func (s Snapshot) NoResults() bool {
	return s.Searched && !s.Loading && s.Err == "" && len(s.Books) == 0
}

// Options configures a Controller.
type Options struct {
	// Debounce is the quiet period after an UpdateParams before the
	// fetch fires. Zero keeps the 350ms default.
	Debounce time.Duration

	// FacetLimit bounds each derived facet list. Zero keeps 50.
	FacetLimit int

	// PageSize is the default page size applied to params that carry
	// none. Zero keeps 20.
	PageSize int
}

// Controller is the search session state machine.
type Controller struct {
	mu       sync.Mutex
	searcher Searcher

	debounce   time.Duration
	facetLimit int
	pageSize   int

	params   Params
	books    []book.Book
	numFound int
	facets   Facets
	loading  bool
	errMsg   string
	searched bool

	timer  *time.Timer
	cancel context.CancelFunc
	seq    uint64

	hub *Hub
}

// New creates a controller around the given searcher.
func New(searcher Searcher, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = 350 * time.Millisecond
	}
	if opts.FacetLimit <= 0 {
		opts.FacetLimit = 50
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	return &Controller{
		searcher:   searcher,
		debounce:   opts.Debounce,
		facetLimit: opts.FacetLimit,
		pageSize:   opts.PageSize,
		params:     Params{}.normalize(opts.PageSize),
		hub:        NewHub(0),
	}
}

// Subscribe registers a snapshot listener. Callers must Unsubscribe.
func (c *Controller) Subscribe() (uint64, <-chan Snapshot) {
	return c.hub.Subscribe()
}

// Unsubscribe releases a listener registered with Subscribe.
func (c *Controller) Unsubscribe(id uint64) {
	c.hub.Unsubscribe(id)
}

// UpdateParams replaces the session parameters and schedules a
// debounced fetch. Any change beyond the page number resets the page to
// 1, so the next fetch replaces the accumulated result set. Rapid
// successive edits collapse into one fetch; any fetch already in flight
// is cancelled immediately.
func (c *Controller) UpdateParams(p Params) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p = p.normalize(c.pageSize)
	if !p.equalIgnoringPage(c.params) {
		p.Page = 1
	}
	c.params = p

	c.stopTimerLocked()
	c.cancelInflightLocked()
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.startFetchLocked(false)
	})
}

// Submit forces an immediate fetch with the current parameters,
// bypassing the debounce.
func (c *Controller) Submit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	c.startFetchLocked(false)
}

// LoadMore increments the page and appends the next page's filtered
// records after the existing ones. It is a no-op while a fetch is in
// flight or when the accumulated count already reaches the server's
// estimate; the return value reports whether a fetch was started.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading || !c.searched {
		return false
	}
	if len(c.books) >= c.numFound {
		return false
	}

	c.stopTimerLocked()
	c.params.Page++
	c.startFetchLocked(true)
	return true
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close cancels any pending debounce timer and in-flight fetch.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.cancelInflightLocked()
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// cancelInflightLocked cancels the outstanding fetch and bumps the
// sequence number so its response is dropped even when it already made
// it past the transport before the context cancellation took effect.
func (c *Controller) cancelInflightLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.seq++
	}
}

// startFetchLocked begins a new fetch for the current parameters. The
// sequence number identifies the fetch; responses arriving for an older
// sequence are dropped without touching state.
func (c *Controller) startFetchLocked(appendPage bool) {
	c.cancelInflightLocked()
	c.seq++
	seq := c.seq

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.loading = true
	c.errMsg = ""
	c.publishLocked()

	params := c.params
	logger.Debugf("fetch #%d mode=%s q=%q page=%d append=%v", seq, params.Mode, params.Query, params.Page, appendPage)

	go c.runFetch(ctx, seq, params, appendPage)
}

func (c *Controller) runFetch(ctx context.Context, seq uint64, params Params, appendPage bool) {
	result, err := c.searcher.Search(ctx, params.query())

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// Superseded by a newer fetch; its response owns the state now.
		logger.Debugf("fetch #%d superseded, dropping response", seq)
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Warnf("fetch #%d failed: %v", seq, err)
		if appendPage {
			// Undo the page bump so a retried load-more refetches the
			// page that failed instead of skipping past it.
			c.params.Page--
		}
		c.loading = false
		c.searched = true
		c.errMsg = "search failed: " + err.Error()
		c.publishLocked()
		return
	}

	page := FilterPage(result.Books, params)
	if appendPage {
		c.books = appendDeduped(c.books, page)
	} else {
		c.books = page
	}
	c.numFound = result.NumFound
	c.facets = DeriveFacets(c.books, c.facetLimit)
	SortBooks(c.books, params.Sort)

	c.loading = false
	c.searched = true
	c.errMsg = ""
	c.publishLocked()
}

// appendDeduped concatenates page after existing, skipping records
// whose key is already present. Provider pagination can return
// overlapping records across pages; the first occurrence wins and the
// head keeps its order.
func appendDeduped(existing, page []book.Book) []book.Book {
	seen := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		seen[b.Key] = struct{}{}
	}
	for _, b := range page {
		if _, dup := seen[b.Key]; dup {
			continue
		}
		seen[b.Key] = struct{}{}
		existing = append(existing, b)
	}
	return existing
}

func (c *Controller) snapshotLocked() Snapshot {
	books := make([]book.Book, len(c.books))
	copy(books, c.books)
	return Snapshot{
		Params:   c.params,
		Books:    books,
		NumFound: c.numFound,
		Facets:   c.facets,
		Loading:  c.loading,
		Err:      c.errMsg,
		Searched: c.searched,
	}
}

func (c *Controller) publishLocked() {
	c.hub.Publish(c.snapshotLocked())
}
