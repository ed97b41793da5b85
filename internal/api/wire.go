package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

// flexTime accepts the timestamp shapes the backend has emitted over time:
// RFC3339, naive ISO-8601, date only, or unix seconds. Anything else decodes
// to the zero time and is filled in by normalization.
type flexTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		t.Time = time.Unix(int64(secs), 0).UTC()
	}
	return nil
}

type wireToken struct {
	Symbol          string   `json:"symbol"`
	TokenSymbol     string   `json:"token_symbol"`
	TokenAddress    string   `json:"token_address"`
	NumSwaps        *int     `json:"num_swaps"`
	TotalBuyUSD     *float64 `json:"total_buy_usd"`
	TotalSellUSD    *float64 `json:"total_sell_usd"`
	TotalPnLUSD     *float64 `json:"total_pnl_usd"`
	ROIPercentage   *float64 `json:"roi_percentage"`
	AvgPositionSize *float64 `json:"avg_position_size"`
	LastTradeTime   flexTime `json:"last_trade_time"`
}

func (t wireToken) toDomain() domain.TokenMetric {
	symbol := t.Symbol
	if symbol == "" {
		symbol = t.TokenSymbol
	}
	return domain.TokenMetric{
		Symbol:          symbol,
		TokenAddress:    t.TokenAddress,
		NumSwaps:        domain.IntOr(t.NumSwaps, 0),
		TotalBuyUSD:     domain.FloatOr(t.TotalBuyUSD, 0),
		TotalSellUSD:    domain.FloatOr(t.TotalSellUSD, 0),
		TotalPnLUSD:     domain.FloatOr(t.TotalPnLUSD, 0),
		ROIPercentage:   domain.FloatOr(t.ROIPercentage, 0),
		AvgPositionSize: domain.FloatOr(t.AvgPositionSize, 0),
		LastTradeTime:   t.LastTradeTime.Time,
	}
}

type wireRisk struct {
	MaxDrawdown  *float64 `json:"max_drawdown"`
	SharpeRatio  *float64 `json:"sharpe_ratio"`
	SortinoRatio *float64 `json:"sortino_ratio"`
	RiskRating   string   `json:"risk_rating"`
	Volatility   *float64 `json:"volatility"`
}

type wireAnalytics struct {
	AvgHoldTimeHours  *float64 `json:"avg_hold_time_hours"`
	AvgSwapsPerToken  *float64 `json:"avg_swaps_per_token"`
	AvgBuySize        *float64 `json:"avg_buy_size"`
	RiskMetrics       wireRisk `json:"risk_metrics"`
	IsCopyworthy      bool     `json:"is_copyworthy"`
	CopyworthyReasons []string `json:"copyworthy_reasons"`
}

func (a *wireAnalytics) toDomain() *domain.Analytics {
	if a == nil {
		return nil
	}
	reasons := a.CopyworthyReasons
	if reasons == nil {
		reasons = []string{}
	}
	return &domain.Analytics{
		AvgHoldTimeHours: domain.FloatOr(a.AvgHoldTimeHours, 0),
		AvgSwapsPerToken: domain.FloatOr(a.AvgSwapsPerToken, 0),
		AvgBuySize:       domain.FloatOr(a.AvgBuySize, 0),
		RiskMetrics: domain.AnalyticsRisk{
			MaxDrawdown: domain.FloatOr(a.RiskMetrics.MaxDrawdown, 0),
			SharpeRatio: domain.FloatOr(a.RiskMetrics.SharpeRatio, 0),
			Volatility:  domain.FloatOr(a.RiskMetrics.Volatility, 0),
			RiskRating:  domain.ParseRiskRating(a.RiskMetrics.RiskRating),
		},
		IsCopyworthy:      a.IsCopyworthy,
		CopyworthyReasons: reasons,
	}
}

type wireDaily struct {
	Date   flexTime `json:"date"`
	PnLUSD *float64 `json:"pnl_usd"`
}

// wireWallet is the tolerant decoding target for /wallets/top and
// /wallets/{address}. The list endpoint has shipped with alternative field
// names; canonical names take precedence when both are present.
type wireWallet struct {
	Address       string `json:"address"`
	WalletAddress string `json:"wallet_address"`

	TotalPnLUSD   *float64 `json:"total_pnl_usd"`
	WinRate       *float64 `json:"winrate"`
	WinRateAlt    *float64 `json:"win_rate"`
	TotalTrades   *int     `json:"total_trades"`
	TradeCount    *int     `json:"trade_count"`
	ROIPercentage *float64 `json:"roi_percentage"`
	AvgTradeSize  *float64 `json:"avg_trade_size"`
	TotalVolume   *float64 `json:"total_volume"`
	LastUpdated   flexTime `json:"last_updated"`

	TokenMetrics []wireToken `json:"token_metrics"`
	TokenStats   []wireToken `json:"token_stats"`
	RiskMetrics  wireRisk    `json:"risk_metrics"`

	TotalScore       *float64 `json:"total_score"`
	ROIScore         *float64 `json:"roi_score"`
	VolumeScore      *float64 `json:"volume_score"`
	RiskScore        *float64 `json:"risk_score"`
	ConsistencyScore *float64 `json:"consistency_score"`

	MaxDrawdown   *float64 `json:"max_drawdown"`
	SharpeRatio   *float64 `json:"sharpe_ratio"`
	LastTradeTime flexTime `json:"last_trade_time"`

	TotalVolume24h *float64       `json:"total_volume_24h"`
	TotalPnL24h    *float64       `json:"total_pnl_24h"`
	Analytics      *wireAnalytics `json:"analytics"`

	DailyPnL []wireDaily `json:"daily_pnl"`
}

func firstFloat(ps ...*float64) float64 {
	for _, p := range ps {
		if p != nil {
			return *p
		}
	}
	return 0
}

func firstInt(ps ...*int) int {
	for _, p := range ps {
		if p != nil {
			return *p
		}
	}
	return 0
}

// toDomain converts and normalizes one wallet record.
func (w wireWallet) toDomain(now time.Time) domain.Wallet {
	address := w.Address
	if address == "" {
		address = w.WalletAddress
	}

	tokens := w.TokenMetrics
	if tokens == nil {
		tokens = w.TokenStats
	}
	metrics := make([]domain.TokenMetric, 0, len(tokens))
	for _, t := range tokens {
		metrics = append(metrics, t.toDomain())
	}

	out := domain.Wallet{
		Address:       address,
		TotalPnLUSD:   firstFloat(w.TotalPnLUSD),
		WinRate:       firstFloat(w.WinRate, w.WinRateAlt),
		TotalTrades:   firstInt(w.TotalTrades, w.TradeCount),
		ROIPercentage: firstFloat(w.ROIPercentage),
		AvgTradeSize:  firstFloat(w.AvgTradeSize),
		TotalVolume:   firstFloat(w.TotalVolume),
		LastUpdated:   w.LastUpdated.Time,
		TokenMetrics:  metrics,
		RiskMetrics: domain.RiskMetrics{
			MaxDrawdown:  firstFloat(w.RiskMetrics.MaxDrawdown, w.MaxDrawdown),
			SharpeRatio:  firstFloat(w.RiskMetrics.SharpeRatio, w.SharpeRatio),
			SortinoRatio: firstFloat(w.RiskMetrics.SortinoRatio),
			RiskRating:   domain.ParseRiskRating(w.RiskMetrics.RiskRating),
			Volatility:   firstFloat(w.RiskMetrics.Volatility),
		},
		Scores: domain.Scores{
			Total:       firstFloat(w.TotalScore),
			ROI:         firstFloat(w.ROIScore),
			Volume:      firstFloat(w.VolumeScore),
			Risk:        firstFloat(w.RiskScore),
			Consistency: firstFloat(w.ConsistencyScore),
		},
		MaxDrawdown:    firstFloat(w.MaxDrawdown, w.RiskMetrics.MaxDrawdown),
		LastTradeTime:  w.LastTradeTime.Time,
		TotalVolume24h: w.TotalVolume24h,
		TotalPnL24h:    w.TotalPnL24h,
		Analytics:      w.Analytics.toDomain(),
	}

	for _, d := range w.DailyPnL {
		out.DailyPnL = append(out.DailyPnL, domain.DailyPnL{
			Date:   d.Date.Time,
			PnLUSD: firstFloat(d.PnLUSD),
		})
	}

	out.Normalize(now)
	return out
}

type wireTrend struct {
	WalletCountChange   *float64 `json:"wallet_count_change"`
	VolumeChange        *float64 `json:"volume_change"`
	TradesChange        *float64 `json:"trades_change"`
	ROIChange           *float64 `json:"roi_change"`
	WinRateChange       *float64 `json:"winrate_change"`
	TopPerformersChange *float64 `json:"top_performers_change"`
}

type wireStats struct {
	TotalWallets   *int        `json:"total_wallets"`
	TotalVolume    *float64    `json:"total_volume"`
	TotalTrades    *int        `json:"total_trades"`
	AverageROI     *float64    `json:"average_roi"`
	AverageWinRate *float64    `json:"average_winrate"`
	TopPerformers  *int        `json:"top_performers"`
	Trends         []wireTrend `json:"trends"`
}

func (s wireStats) toDomain() domain.DashboardStats {
	out := domain.DashboardStats{
		TotalWallets:  firstInt(s.TotalWallets),
		TotalVolume:   firstFloat(s.TotalVolume),
		TotalTrades:   firstInt(s.TotalTrades),
		AvgROI:        firstFloat(s.AverageROI),
		AvgWinRate:    firstFloat(s.AverageWinRate),
		TopPerformers: firstInt(s.TopPerformers),
	}
	if len(s.Trends) > 0 {
		t := s.Trends[0]
		out.Change = domain.StatsChange{
			Wallets:       firstFloat(t.WalletCountChange),
			Volume:        firstFloat(t.VolumeChange),
			Trades:        firstFloat(t.TradesChange),
			ROI:           firstFloat(t.ROIChange),
			WinRate:       firstFloat(t.WinRateChange),
			TopPerformers: firstFloat(t.TopPerformersChange),
		}
	}
	return out
}
