package state

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

func TestToggleFetchesOnlyOnFirstExpansion(t *testing.T) {
	s := NewCardStore(zap.NewNop())

	expanded, fetch := s.Toggle("A")
	assert.True(t, expanded)
	assert.True(t, fetch)
	assert.True(t, s.Get("A").Refreshing)

	// collapse and re-expand while the first fetch is still running
	s.Toggle("A")
	_, fetch = s.Toggle("A")
	assert.False(t, fetch)

	s.SetLive("A", &domain.LiveRecord{WinRate: domain.Float(60)})
	s.Toggle("A")
	expanded, fetch = s.Toggle("A")
	assert.True(t, expanded)
	assert.False(t, fetch)
}

func TestFailedFetchRetriesOnNextExpansion(t *testing.T) {
	s := NewCardStore(zap.NewNop())
	s.Toggle("A")
	s.SetError("A", errors.New("timeout"))

	c := s.Get("A")
	assert.False(t, c.Refreshing)
	assert.Error(t, c.Err)
	assert.False(t, c.Fetched())

	s.Toggle("A")
	_, fetch := s.Toggle("A")
	assert.True(t, fetch)
}

func TestRefreshKeepsPreviousLiveOnError(t *testing.T) {
	s := NewCardStore(zap.NewNop())
	live := &domain.LiveRecord{WinRate: domain.Float(60)}
	s.SetLive("A", live)

	require.True(t, s.BeginRefresh("A"))
	assert.False(t, s.BeginRefresh("A"))
	s.SetError("A", errors.New("boom"))

	c := s.Get("A")
	assert.Same(t, live, c.Live)
	assert.Error(t, c.Err)
	assert.True(t, s.BeginRefresh("A"))
}

func TestViewAppliesCardQuirk(t *testing.T) {
	s := NewCardStore(zap.NewNop())
	base := domain.Wallet{Address: "A", WinRate: 40}

	view, _ := s.View(base)
	assert.Equal(t, 40.0, view.WinRate)

	s.SetLive("A", &domain.LiveRecord{WinRate: domain.Float(0), TotalROIPercentage: domain.Float(12)})
	view, card := s.View(base)
	assert.Equal(t, 40.0, view.WinRate)
	assert.Equal(t, 12.0, view.ROIPercentage)
	assert.True(t, card.Fetched())
}

func TestCleanupStaleKeepsExpanded(t *testing.T) {
	s := NewCardStore(zap.NewNop())
	s.SetLive("old", &domain.LiveRecord{})
	s.Toggle("open")
	s.SetLive("open", &domain.LiveRecord{})

	assert.Equal(t, 1, s.CleanupStale(-time.Second))
	assert.False(t, s.Get("old").Fetched())
	assert.True(t, s.Get("open").Fetched())

	s.Clear()
	cards, _, _ := s.GetStats()
	assert.Zero(t, cards)
}

func TestCardStoreConcurrentAccess(t *testing.T) {
	s := NewCardStore(zap.NewNop())
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				addr := fmt.Sprintf("w%d_%d", id, j)
				s.Toggle(addr)
				s.SetLive(addr, &domain.LiveRecord{})
				_, _ = s.View(domain.Wallet{Address: addr})
			}
		}(i)
	}
	wg.Wait()

	cards, reads, writes := s.GetStats()
	assert.Equal(t, uint64(500), cards)
	assert.Equal(t, uint64(500), reads)
	assert.Equal(t, uint64(1000), writes)
}
