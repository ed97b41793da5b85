// Package pager maintains the growing, filtered wallet list behind the
// dashboard and wallets screens.
package pager

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

const DefaultPageSize = 50

var (
	// ErrInFlight is returned when a page request is already running.
	ErrInFlight = errors.New("page request already in flight")
	// ErrExhausted is returned once a short page has been seen.
	ErrExhausted = errors.New("no more pages")
	// ErrStale is returned for a result that was superseded by a reload.
	ErrStale = errors.New("result superseded by reload")
)

// PageFetcher loads one page of wallets.
type PageFetcher interface {
	TopWallets(ctx context.Context, q domain.TopQuery) ([]domain.Wallet, error)
}

// Pager is safe for concurrent use. At most one page request runs at a time
// per generation; a Reload starts a new generation and drops older results.
type Pager struct {
	fetcher  PageFetcher
	logger   *zap.Logger
	pageSize int

	mu       sync.Mutex
	criteria domain.FilterCriteria
	wallets  []domain.Wallet
	page     int
	hasMore  bool
	busy     bool
	gen      uint64
}

// New creates an empty pager. Call Reload to fetch page 1.
func New(fetcher PageFetcher, pageSize int, logger *zap.Logger) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		fetcher:  fetcher,
		logger:   logger.Named("pager"),
		pageSize: pageSize,
		hasMore:  true,
	}
}

// Reload resets pagination for criteria and replaces the list with page 1.
// On failure the previous list stays visible.
func (p *Pager) Reload(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Wallet, error) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.criteria = criteria
	p.page = 0
	p.hasMore = true
	p.busy = true
	p.mu.Unlock()

	wallets, err := p.fetcher.TopWallets(ctx, domain.TopQuery{Filter: criteria, Page: 1, Limit: p.pageSize})

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil, ErrStale
	}
	p.busy = false
	if err != nil {
		p.logger.Error("Failed to load first page", zap.Error(err))
		return nil, err
	}

	p.wallets = wallets
	p.page = 1
	p.hasMore = len(wallets) >= p.pageSize
	p.logger.Debug("First page loaded",
		zap.Int("count", len(wallets)), zap.Bool("has_more", p.hasMore))
	return p.snapshotLocked(), nil
}

// LoadMore fetches and appends the next page. It never issues a request
// while another one is running or after the list is exhausted.
func (p *Pager) LoadMore(ctx context.Context) ([]domain.Wallet, error) {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return nil, ErrInFlight
	}
	if !p.hasMore {
		p.mu.Unlock()
		return nil, ErrExhausted
	}
	p.busy = true
	gen := p.gen
	next := p.page + 1
	criteria := p.criteria
	p.mu.Unlock()

	wallets, err := p.fetcher.TopWallets(ctx, domain.TopQuery{Filter: criteria, Page: next, Limit: p.pageSize})

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil, ErrStale
	}
	p.busy = false
	if err != nil {
		p.logger.Error("Failed to load more wallets", zap.Int("page", next), zap.Error(err))
		return nil, err
	}

	p.wallets = append(p.wallets, wallets...)
	p.page = next
	if len(wallets) < p.pageSize {
		p.hasMore = false
	}
	p.logger.Debug("Page appended",
		zap.Int("page", next), zap.Int("count", len(wallets)), zap.Bool("has_more", p.hasMore))
	return p.snapshotLocked(), nil
}

// Wallets returns a copy of the accumulated list.
func (p *Pager) Wallets() []domain.Wallet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// HasMore reports whether another page may exist.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loading reports whether a request is in flight.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Page returns the last successfully loaded page number.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Criteria returns the active filter.
func (p *Pager) Criteria() domain.FilterCriteria {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.criteria
}

func (p *Pager) snapshotLocked() []domain.Wallet {
	out := make([]domain.Wallet, len(p.wallets))
	copy(out, p.wallets)
	return out
}
