package state

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/reconcile"
)

// Card is the UI state of one wallet card.
type Card struct {
	Expanded   bool
	Refreshing bool
	Live       *domain.LiveRecord
	Err        error
	UpdatedAt  time.Time
}

// Fetched reports whether live data has been loaded at least once.
func (c Card) Fetched() bool { return c.Live != nil }

// CardStore is a thread-safe map of card state keyed by wallet address.
// Live fetches complete on command goroutines, hence the lock.
type CardStore struct {
	cards  map[string]Card
	mu     sync.RWMutex
	logger *zap.Logger

	// Statistics (accessed atomically)
	reads  uint64
	writes uint64
}

// NewCardStore creates an empty store
func NewCardStore(logger *zap.Logger) *CardStore {
	return &CardStore{
		cards:  make(map[string]Card),
		logger: logger,
	}
}

// Toggle flips the expanded flag. needsFetch is true when the card was just
// expanded, has no live data yet and no fetch is running; the caller then
// starts the fetch, already marked as refreshing here.
func (s *CardStore) Toggle(address string) (expanded, needsFetch bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cards[address]
	c.Expanded = !c.Expanded
	if c.Expanded && !c.Fetched() && !c.Refreshing {
		c.Refreshing = true
		needsFetch = true
	}
	s.cards[address] = c
	atomic.AddUint64(&s.writes, 1)
	return c.Expanded, needsFetch
}

// BeginRefresh marks a refresh as running. It returns false if one is
// already in flight.
func (s *CardStore) BeginRefresh(address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cards[address]
	if c.Refreshing {
		return false
	}
	c.Refreshing = true
	s.cards[address] = c
	atomic.AddUint64(&s.writes, 1)
	return true
}

// SetLive stores a successful fetch.
func (s *CardStore) SetLive(address string, live *domain.LiveRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cards[address]
	c.Live = live
	c.Err = nil
	c.Refreshing = false
	c.UpdatedAt = time.Now()
	s.cards[address] = c
	atomic.AddUint64(&s.writes, 1)
}

// SetError ends a failed fetch. Previously fetched live data is kept.
func (s *CardStore) SetError(address string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cards[address]
	c.Err = err
	c.Refreshing = false
	s.cards[address] = c
	atomic.AddUint64(&s.writes, 1)
}

// Get returns a copy of a card's state.
func (s *CardStore) Get(address string) Card {
	s.mu.RLock()
	defer s.mu.RUnlock()

	atomic.AddUint64(&s.reads, 1)
	return s.cards[address]
}

// View reconciles base with the card's live record, if any.
func (s *CardStore) View(base domain.Wallet) (domain.Wallet, Card) {
	c := s.Get(base.Address)
	return reconcile.CardView(base, c.Live), c
}

// Clear drops every card, used when the list is reloaded.
func (s *CardStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = make(map[string]Card)
	atomic.AddUint64(&s.writes, 1)
}

// GetStats returns store statistics
func (s *CardStore) GetStats() (cards, reads, writes uint64) {
	s.mu.RLock()
	cards = uint64(len(s.cards))
	s.mu.RUnlock()

	reads = atomic.LoadUint64(&s.reads)
	writes = atomic.LoadUint64(&s.writes)
	return cards, reads, writes
}

// CleanupStale drops collapsed cards whose live data is older than maxAge so
// re-expanding them fetches fresh figures.
func (s *CardStore) CleanupStale(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for addr, c := range s.cards {
		if !c.Expanded && !c.Refreshing && c.UpdatedAt.Before(cutoff) {
			delete(s.cards, addr)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Debug("Cleaned up stale cards",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.cards)))
	}
	return removed
}
