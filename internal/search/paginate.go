package search

import (
	"sync"

	"github.com/gcbaptista/go-cocktail-search/model"
)

// Prune keeps at most limit items from the front of a ranked list.
// It must run after Rank.
func Prune(ranked []model.ScoredResult, limit int) []model.ScoredResult {
	if limit >= 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// Pager exposes a growing window over a ranked, pruned list.
// The window starts at one page and grows by one page per LoadMore.
// It never re-fetches or re-ranks.
type Pager struct {
	mu       sync.RWMutex
	items    []model.ScoredResult
	pageSize int
	pages    int
}

// NewPager creates a pager showing the first page. A pageSize below 1 is treated as 1.
func NewPager(items []model.ScoredResult, pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	if items == nil {
		items = []model.ScoredResult{}
	}
	return &Pager{items: items, pageSize: pageSize, pages: 1}
}

// Visible returns the current window: min(total, pages*pageSize) items.
func (p *Pager) Visible() []model.ScoredResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.items[:p.visibleCount()]
}

// LoadMore grows the window by one page, clamped to the total, and reports whether it grew.
func (p *Pager) LoadMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visibleCount() >= len(p.items) {
		return false
	}
	p.pages++
	return true
}

// CanLoadMore reports whether items remain beyond the window.
func (p *Pager) CanLoadMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.visibleCount() < len(p.items)
}

// Total returns the number of ranked items behind the pager.
func (p *Pager) Total() int {
	return len(p.items)
}

// Pages returns how many pages are visible.
func (p *Pager) Pages() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pages
}

// PageSize returns the page size.
func (p *Pager) PageSize() int {
	return p.pageSize
}

func (p *Pager) visibleCount() int {
	n := p.pages * p.pageSize
	if n > len(p.items) {
		return len(p.items)
	}
	return n
}
