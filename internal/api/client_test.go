package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

func newTestClient(t *testing.T, h http.Handler, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(Options{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		Retries:    retries,
		RetryDelay: time.Millisecond,
	}, zaptest.NewLogger(t))
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestTopWalletsQueryAndAliases(t *testing.T) {
	var gotQuery string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallets/top", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"wallet_address":"AAA","win_rate":61.5,"trade_count":42,"total_score":88,
			 "roi_score":70,"max_drawdown":12,"token_stats":[{"symbol":"BONK","num_swaps":3}],
			 "risk_metrics":{"risk_rating":"low","sharpe_ratio":1.2}},
			{"address":"BBB","wallet_address":"ignored","winrate":40,"win_rate":99,
			 "total_trades":5,"trade_count":100,"last_updated":"2024-04-30T10:00:00"}
		]`))
	})
	c := newTestClient(t, h, 0)

	wallets, err := c.TopWallets(context.Background(), domain.TopQuery{
		Filter: domain.DefaultFilter(),
		Page:   2,
		Limit:  50,
	})
	require.NoError(t, err)
	require.Len(t, wallets, 2)

	assert.Contains(t, gotQuery, "min_roi=20")
	assert.Contains(t, gotQuery, "min_win_rate=50")
	assert.Contains(t, gotQuery, "min_trades=20")
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "limit=50")

	a := wallets[0]
	assert.Equal(t, "AAA", a.Address)
	assert.Equal(t, 61.5, a.WinRate)
	assert.Equal(t, 42, a.TotalTrades)
	assert.Equal(t, 88.0, a.Scores.Total)
	assert.Equal(t, 12.0, a.RiskMetrics.MaxDrawdown)
	assert.Equal(t, domain.RiskLow, a.RiskMetrics.RiskRating)
	require.Len(t, a.TokenMetrics, 1)
	assert.Equal(t, "BONK", a.TokenMetrics[0].Symbol)
	// normalization defaults
	require.NotNil(t, a.Analytics)
	assert.Equal(t, domain.RiskMedium, a.Analytics.RiskMetrics.RiskRating)
	assert.Equal(t, c.now(), a.LastUpdated)

	b := wallets[1]
	assert.Equal(t, "BBB", b.Address)
	assert.Equal(t, 40.0, b.WinRate)
	assert.Equal(t, 5, b.TotalTrades)
	assert.Equal(t, domain.RiskMedium, b.RiskMetrics.RiskRating)
	assert.Equal(t, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC), b.LastUpdated)
	assert.Empty(t, b.TokenMetrics)
}

func TestTopWalletsTolerantNumbers(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"address":"AAA","winrate":50,"total_trades":12.0},
			{"address":"BBB","winrate":"61.5","total_trades":"7","total_pnl_usd":null,
			 "token_metrics":[{"symbol":"WIF","num_swaps":"4","total_pnl_usd":"-2.5"}]}
		]`))
	})
	c := newTestClient(t, h, 0)

	wallets, err := c.TopWallets(context.Background(), domain.TopQuery{Filter: domain.DefaultFilter(), Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, wallets, 2)

	assert.Equal(t, 12, wallets[0].TotalTrades)
	assert.Equal(t, 50.0, wallets[0].WinRate)

	b := wallets[1]
	assert.Equal(t, 61.5, b.WinRate)
	assert.Equal(t, 7, b.TotalTrades)
	assert.Zero(t, b.TotalPnLUSD)
	require.Len(t, b.TokenMetrics, 1)
	assert.Equal(t, 4, b.TokenMetrics[0].NumSwaps)
	assert.Equal(t, -2.5, b.TokenMetrics[0].TotalPnLUSD)
}

func TestStatsTrends(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/overview", r.URL.Path)
		_, _ = w.Write([]byte(`{"total_wallets":"1200","top_performers":42.0,
			"trends":[{"wallet_count_change":5,"volume_change":12.5,"trades_change":-1,
			  "roi_change":3,"winrate_change":2.5,"top_performers_change":-4},
			  {"wallet_count_change":99}]}`))
	})
	c := newTestClient(t, h, 0)

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200, stats.TotalWallets)
	assert.Equal(t, 42, stats.TopPerformers)
	assert.Equal(t, domain.StatsChange{
		Wallets:       5,
		Volume:        12.5,
		Trades:        -1,
		ROI:           3,
		WinRate:       2.5,
		TopPerformers: -4,
	}, stats.Change)
}

func TestGetWalletNotFound(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Wallet not found"}`, http.StatusNotFound)
	})
	c := newTestClient(t, h, 3)

	_, err := c.GetWallet(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsStatus(err))
}

func TestGetWalletDailyPnL(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallets/XYZ", r.URL.Path)
		_, _ = w.Write([]byte(`{"address":"XYZ","total_pnl_usd":1500.25,
			"total_volume_24h":900,
			"daily_pnl":[{"date":"2024-04-29","pnl_usd":10},{"date":"2024-04-30","pnl_usd":-4.5}],
			"analytics":{"avg_hold_time_hours":30,"is_copyworthy":true,
			  "copyworthy_reasons":["High ROI"],"risk_metrics":{"risk_rating":"High"}}}`))
	})
	c := newTestClient(t, h, 0)

	wallet, err := c.GetWallet(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, 1500.25, wallet.TotalPnLUSD)
	require.NotNil(t, wallet.TotalVolume24h)
	assert.Equal(t, 900.0, *wallet.TotalVolume24h)
	assert.Nil(t, wallet.TotalPnL24h)
	require.Len(t, wallet.DailyPnL, 2)
	assert.Equal(t, -4.5, wallet.DailyPnL[1].PnLUSD)
	assert.True(t, wallet.Copyworthy())
	assert.Equal(t, domain.RiskHigh, wallet.EffectiveRisk())
}

func TestRetriesServerErrors(t *testing.T) {
	var calls int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"total_wallets":7,"average_roi":33.3,"average_winrate":55,
			"top_performers":2,"trends":[{"wallet_count_change":1.5,"roi_change":-2}]}`))
	})
	c := newTestClient(t, h, 3)

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Equal(t, 7, stats.TotalWallets)
	assert.Equal(t, 33.3, stats.AvgROI)
	assert.Equal(t, 55.0, stats.AvgWinRate)
	assert.Equal(t, 2, stats.TopPerformers)
	assert.Equal(t, 1.5, stats.Change.Wallets)
	assert.Equal(t, -2.0, stats.Change.ROI)
	assert.Zero(t, stats.Change.WinRate)
	assert.Zero(t, stats.Change.Volume)
}

func TestNoRetryByDefault(t *testing.T) {
	var calls int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newTestClient(t, h, 0)

	_, err := c.Stats(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClientErrorIsPermanent(t *testing.T) {
	var calls int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	})
	c := newTestClient(t, h, 5)

	_, err := c.TopWallets(context.Background(), domain.TopQuery{Page: 1})
	require.Error(t, err)
	assert.True(t, IsStatus(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetLiveEnvelope(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/proxy/cielo/LIVE", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"total_pnl_24h":0,"winrate":71,
			"tokens":[{"token_symbol":"WIF","average_buy_price":2,"total_buy_amount":5,"last_trade":1714564800}]}}`))
	})
	c := newTestClient(t, h, 0)

	env, err := c.GetLive(context.Background(), "LIVE")
	require.NoError(t, err)
	require.True(t, env.Success)
	require.NotNil(t, env.Data)
	require.NotNil(t, env.Data.TotalPnL24h)
	assert.Zero(t, *env.Data.TotalPnL24h)
	assert.Nil(t, env.Data.TotalVolume24h)

	tokens := env.Data.TokenMetrics()
	require.Len(t, tokens, 1)
	assert.Equal(t, "WIF", tokens[0].Symbol)
	assert.Equal(t, 10.0, tokens[0].AvgPositionSize)
	assert.Equal(t, time.Unix(1714564800, 0).UTC(), tokens[0].LastTradeTime)
}

func TestContextCancellation(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	c := newTestClient(t, h, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Stats(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
