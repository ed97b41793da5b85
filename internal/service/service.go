// Package service joins the backend calls the screens and the CLI need into
// single operations with user-facing error semantics.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/api"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/pager"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/reconcile"
)

// LoadFailedMessage is the banner shown when the dashboard load fails.
const LoadFailedMessage = "Failed to fetch data. Please try again."

var (
	ErrEmptyAddress    = errors.New("Please enter a wallet address")
	ErrInvalidAddress  = errors.New("invalid Solana wallet address")
	ErrNotFound        = errors.New("Wallet not found in any data source")
	ErrLiveUnavailable = errors.New("Failed to fetch wallet data from live source")
)

// Backend is the subset of the API client the services use.
type Backend interface {
	TopWallets(ctx context.Context, q domain.TopQuery) ([]domain.Wallet, error)
	GetWallet(ctx context.Context, address string) (*domain.Wallet, error)
	GetLive(ctx context.Context, address string) (*domain.LiveEnvelope, error)
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

// Source tells where a looked-up record came from.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceLive    Source = "live"
)

// Snapshot is a joined dashboard load.
type Snapshot struct {
	Wallets []domain.Wallet
	Stats   domain.DashboardStats
	HasMore bool
}

// Dashboard drives the list+stats screens.
type Dashboard struct {
	backend Backend
	pager   *pager.Pager
	logger  *zap.Logger
}

// NewDashboard creates a dashboard service with its own pager.
func NewDashboard(backend Backend, pageSize int, logger *zap.Logger) *Dashboard {
	logger = logger.Named("dashboard")
	return &Dashboard{
		backend: backend,
		pager:   pager.New(backend, pageSize, logger),
		logger:  logger,
	}
}

// Load fetches page 1 for criteria and the overview stats concurrently and
// returns only when both finished. Either failure fails the whole load.
func (d *Dashboard) Load(ctx context.Context, criteria domain.FilterCriteria) (*Snapshot, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		wallets []domain.Wallet
		stats   *domain.DashboardStats
	)
	g.Go(func() error {
		var err error
		wallets, err = d.pager.Reload(gctx, criteria)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = d.backend.Stats(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, pager.ErrStale) {
			return nil, err
		}
		d.logger.Error("Error fetching data", zap.Error(err))
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	d.logger.Info("Dashboard loaded",
		zap.Int("count", len(wallets)), zap.Int("total_wallets", stats.TotalWallets))
	return &Snapshot{Wallets: wallets, Stats: *stats, HasMore: d.pager.HasMore()}, nil
}

// LoadMore appends the next page. ErrInFlight and ErrExhausted pass through.
func (d *Dashboard) LoadMore(ctx context.Context) ([]domain.Wallet, error) {
	return d.pager.LoadMore(ctx)
}

// Pager exposes the underlying pager for state queries.
func (d *Dashboard) Pager() *pager.Pager {
	return d.pager
}

// SearchResult is a reconciled lookup.
type SearchResult struct {
	Wallet domain.Wallet
	Live   *domain.LiveRecord
	Source Source
}

// Lookup implements wallet search, detail and card refresh.
type Lookup struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

// NewLookup creates a lookup service.
func NewLookup(backend Backend, logger *zap.Logger) *Lookup {
	return &Lookup{backend: backend, logger: logger.Named("lookup"), now: time.Now}
}

// ValidateAddress trims input and checks it is a base58 Solana public key.
func ValidateAddress(input string) (string, error) {
	addr := strings.TrimSpace(input)
	if addr == "" {
		return "", ErrEmptyAddress
	}
	if _, err := solana.PublicKeyFromBase58(addr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return addr, nil
}

// Search looks the address up in the primary store and falls back to the live
// source when the primary answers with a non-2xx status.
func (l *Lookup) Search(ctx context.Context, input string) (*SearchResult, error) {
	addr, err := ValidateAddress(input)
	if err != nil {
		return nil, err
	}

	primary, err := l.backend.GetWallet(ctx, addr)
	if err != nil {
		if !api.IsStatus(err) {
			l.logger.Error("Search error", zap.String("address", addr), zap.Error(err))
			return nil, fmt.Errorf("lookup %s: %w", addr, err)
		}
		l.logger.Info("Wallet not in primary store, trying live source",
			zap.String("address", addr), zap.Error(err))
		return l.fromLive(ctx, addr)
	}

	res := &SearchResult{Wallet: *primary, Source: SourcePrimary}
	live, err := l.fetchLive(ctx, addr)
	if err != nil {
		l.logger.Warn("Live source unavailable, showing primary record",
			zap.String("address", addr), zap.Error(err))
		return res, nil
	}
	res.Live = live
	res.Wallet = reconcile.SpliceLive(*primary, live, l.now())
	return res, nil
}

func (l *Lookup) fromLive(ctx context.Context, addr string) (*SearchResult, error) {
	env, err := l.backend.GetLive(ctx, addr)
	if err != nil {
		l.logger.Error("Search error", zap.String("address", addr), zap.Error(err))
		if api.IsStatus(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup %s: %w", addr, err)
	}
	if !env.Success || env.Data == nil {
		return nil, ErrLiveUnavailable
	}
	return &SearchResult{
		Wallet: reconcile.FromLive(addr, env.Data, l.now()),
		Live:   env.Data,
		Source: SourceLive,
	}, nil
}

// fetchLive returns the live record or an error when it is unavailable.
func (l *Lookup) fetchLive(ctx context.Context, addr string) (*domain.LiveRecord, error) {
	env, err := l.backend.GetLive(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !env.Success || env.Data == nil {
		return nil, ErrLiveUnavailable
	}
	return env.Data, nil
}

// Live fetches the live record for a wallet card. Failures are logged and
// returned; the caller keeps whatever it showed before.
func (l *Lookup) Live(ctx context.Context, address string) (*domain.LiveRecord, error) {
	live, err := l.fetchLive(ctx, address)
	if err != nil {
		l.logger.Error("Error fetching live data", zap.String("address", address), zap.Error(err))
		return nil, err
	}
	return live, nil
}

// Refresh re-fetches the live source for a displayed result and re-splices
// it. On failure the previous result is returned with the error.
func (l *Lookup) Refresh(ctx context.Context, prev SearchResult) (*SearchResult, error) {
	live, err := l.Live(ctx, prev.Wallet.Address)
	if err != nil {
		return &prev, err
	}
	res := prev
	res.Live = live
	if prev.Source == SourceLive {
		res.Wallet = reconcile.FromLive(prev.Wallet.Address, live, l.now())
		return &res, nil
	}
	res.Wallet = reconcile.SpliceLive(prev.Wallet, live, l.now())
	return &res, nil
}

// Detail loads the primary record with its daily PnL series and splices the
// live source on top, like Search, but without the fallback: a detail page
// exists only for stored wallets.
func (l *Lookup) Detail(ctx context.Context, input string) (*SearchResult, error) {
	addr, err := ValidateAddress(input)
	if err != nil {
		return nil, err
	}
	primary, err := l.backend.GetWallet(ctx, addr)
	if err != nil {
		if api.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load wallet details: %w", err)
	}
	res := &SearchResult{Wallet: *primary, Source: SourcePrimary}
	if live, err := l.fetchLive(ctx, addr); err == nil {
		res.Live = live
		res.Wallet = reconcile.SpliceLive(*primary, live, l.now())
	} else {
		l.logger.Warn("Live source unavailable for details", zap.String("address", addr), zap.Error(err))
	}
	return res, nil
}
