// Package session keeps the search state of one client: the latest query,
// the ranked results and the visible page.
//
// Query changes are debounced. Each change bumps a generation counter that is
// captured when the pipeline run is scheduled and compared when its result
// arrives; results from superseded generations are dropped. Superseded runs
// are also cancelled through their context.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/metrics"
	"github.com/gcbaptista/go-cocktail-search/internal/search"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// Stats are the per-session counters.
type Stats struct {
	Queries      int `json:"queries"`       // SetQuery calls
	Runs         int `json:"runs"`          // Pipeline runs started
	Applied      int `json:"applied"`       // Results that became visible
	StaleDropped int `json:"stale_dropped"` // Results dropped because a newer query existed
}

// Session is safe for concurrent use.
type Session struct {
	id       string
	searcher services.Searcher
	debounce time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
	onApply  func(services.SearchOutcome)

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	query      string
	outcome    services.SearchOutcome
	pager      *search.Pager
	loading    bool
	settled    chan struct{} // closed whenever loading is false
	closed     bool
	lastActive time.Time
	createdAt  time.Time
	stats      Stats
}

type options struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	onApply func(services.SearchOutcome)
}

// Option configures a Session or a Manager.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithOnApply registers a callback run for every outcome that becomes visible.
// It runs outside the session lock.
func WithOnApply(fn func(services.SearchOutcome)) Option {
	return func(o *options) {
		o.onApply = fn
	}
}

// New creates a session showing the starter list.
func New(id string, searcher services.Searcher, debounce time.Duration, opts ...Option) *Session {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	settled := make(chan struct{})
	close(settled)

	now := time.Now()
	s := &Session{
		id:         id,
		searcher:   searcher,
		debounce:   debounce,
		logger:     o.logger.With(zap.String("session_id", id)),
		metrics:    o.metrics,
		onApply:    o.onApply,
		settled:    settled,
		lastActive: now,
		createdAt:  now,
	}
	s.outcome = services.SearchOutcome{
		Classification: services.ClassificationShort,
		Results:        searcher.Starters(),
		Starters:       true,
	}
	s.pager = search.NewPager(s.outcome.Results, searcher.PageSize())
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// SetQuery replaces the current query and returns its generation.
//
// Short queries show the starter list right away. Other queries run the
// pipeline once the debounce window passes without another SetQuery.
func (s *Session) SetQuery(raw string) uint64 {
	plan := s.searcher.Plan(raw)

	s.mu.Lock()
	if s.closed {
		gen := s.generation
		s.mu.Unlock()
		return gen
	}
	s.generation++
	gen := s.generation
	s.query = raw
	s.lastActive = time.Now()
	s.stats.Queries++
	s.stopPendingLocked()

	if plan.Classification == services.ClassificationShort {
		s.mu.Unlock()
		// No lookups happen for short queries
		outcome, err := s.searcher.Search(context.Background(), raw)
		s.apply(gen, outcome, err)
		return gen
	}

	s.beginLoadingLocked()
	s.timer = time.AfterFunc(s.debounce, func() {
		s.run(gen, raw)
	})
	s.mu.Unlock()
	return gen
}

// run executes the pipeline for generation gen if it is still the latest.
func (s *Session) run(gen uint64, raw string) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.timer = nil
	s.stats.Runs++
	s.mu.Unlock()

	outcome, err := s.searcher.Search(ctx, raw)
	cancel()
	s.apply(gen, outcome, err)
}

// apply makes an outcome visible unless a newer generation exists.
func (s *Session) apply(gen uint64, outcome services.SearchOutcome, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.stats.StaleDropped++
		latest := s.generation
		s.mu.Unlock()

		s.metrics.RecordStale()
		s.logger.Debug("dropping result of superseded query",
			zap.String("query", outcome.Query),
			zap.Error(internalErrors.NewStaleResponseError(gen, latest)),
		)
		return
	}
	if err != nil {
		// Only a closed session cancels the current generation
		s.cancel = nil
		s.endLoadingLocked()
		s.mu.Unlock()
		return
	}

	s.outcome = outcome
	s.pager = search.NewPager(outcome.Results, s.searcher.PageSize())
	s.cancel = nil
	s.stats.Applied++
	s.endLoadingLocked()
	onApply := s.onApply
	s.mu.Unlock()

	if onApply != nil {
		onApply(outcome)
	}
}

// LoadMore grows the visible window by one page without re-fetching.
// It reports whether the window grew.
func (s *Session) LoadMore() (services.ResultPage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	grew := s.pager.LoadMore()
	return s.pageLocked(), grew
}

// State returns the current page.
func (s *Session) State() services.ResultPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageLocked()
}

// Query returns the latest raw query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Stats returns a copy of the session counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Wait blocks until no query is pending, then returns the current page.
func (s *Session) Wait(ctx context.Context) (services.ResultPage, error) {
	for {
		s.mu.Lock()
		if !s.loading {
			page := s.pageLocked()
			s.mu.Unlock()
			return page, nil
		}
		settled := s.settled
		s.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return s.State(), ctx.Err()
		}
	}
}

// Close cancels any pending run. Later SetQuery calls are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.generation++
	s.stopPendingLocked()
	s.endLoadingLocked()
}

// idleSince reports when the session was last used.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) stopPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) beginLoadingLocked() {
	if s.loading {
		// Wake waiters so they pick up the new channel
		close(s.settled)
	}
	s.settled = make(chan struct{})
	s.loading = true
}

func (s *Session) endLoadingLocked() {
	if s.loading {
		close(s.settled)
		s.loading = false
	}
}

func (s *Session) pageLocked() services.ResultPage {
	page := search.PageOf(s.outcome, s.pager)
	page.Loading = s.loading
	page.Generation = s.generation
	return page
}
