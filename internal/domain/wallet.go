package domain

import (
	"strings"
	"time"
)

// RiskRating is the backend's three-level risk classification.
type RiskRating string

const (
	RiskLow    RiskRating = "Low"
	RiskMedium RiskRating = "Medium"
	RiskHigh   RiskRating = "High"
)

// ParseRiskRating accepts any casing; unknown values map to "".
func ParseRiskRating(s string) RiskRating {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	default:
		return ""
	}
}

// RiskMetrics is the risk block attached to every wallet record.
type RiskMetrics struct {
	MaxDrawdown  float64    `json:"max_drawdown"`
	SharpeRatio  float64    `json:"sharpe_ratio"`
	SortinoRatio float64    `json:"sortino_ratio"`
	RiskRating   RiskRating `json:"risk_rating"`
	Volatility   float64    `json:"volatility"`
}

// AnalyticsRisk is the reduced risk block carried inside Analytics.
type AnalyticsRisk struct {
	MaxDrawdown float64    `json:"max_drawdown"`
	SharpeRatio float64    `json:"sharpe_ratio"`
	Volatility  float64    `json:"volatility"`
	RiskRating  RiskRating `json:"risk_rating"`
}

// Analytics holds copy-trading oriented insights computed by the backend.
type Analytics struct {
	AvgHoldTimeHours  float64       `json:"avg_hold_time_hours"`
	AvgSwapsPerToken  float64       `json:"avg_swaps_per_token"`
	AvgBuySize        float64       `json:"avg_buy_size"`
	RiskMetrics       AnalyticsRisk `json:"risk_metrics"`
	IsCopyworthy      bool          `json:"is_copyworthy"`
	CopyworthyReasons []string      `json:"copyworthy_reasons"`
}

// TokenMetric summarises a wallet's trading in one token.
type TokenMetric struct {
	Symbol          string    `json:"symbol"`
	TokenAddress    string    `json:"token_address"`
	NumSwaps        int       `json:"num_swaps"`
	TotalBuyUSD     float64   `json:"total_buy_usd"`
	TotalSellUSD    float64   `json:"total_sell_usd"`
	TotalPnLUSD     float64   `json:"total_pnl_usd"`
	ROIPercentage   float64   `json:"roi_percentage"`
	AvgPositionSize float64   `json:"avg_position_size"`
	LastTradeTime   time.Time `json:"last_trade_time"`
}

// Scores are the per-component scores the backend ranks wallets by.
type Scores struct {
	Total       float64 `json:"total_score"`
	ROI         float64 `json:"roi_score"`
	Volume      float64 `json:"volume_score"`
	Risk        float64 `json:"risk_score"`
	Consistency float64 `json:"consistency_score"`
}

// DailyPnL is one point of the detail endpoint's PnL series.
type DailyPnL struct {
	Date   time.Time `json:"date"`
	PnLUSD float64   `json:"pnl_usd"`
}

// Wallet is the shared schema used by list, card, search and detail views.
type Wallet struct {
	Address       string        `json:"address"`
	TotalPnLUSD   float64       `json:"total_pnl_usd"`
	WinRate       float64       `json:"winrate"`
	TotalTrades   int           `json:"total_trades"`
	ROIPercentage float64       `json:"roi_percentage"`
	AvgTradeSize  float64       `json:"avg_trade_size"`
	TotalVolume   float64       `json:"total_volume"`
	LastUpdated   time.Time     `json:"last_updated"`
	TokenMetrics  []TokenMetric `json:"token_metrics"`
	RiskMetrics   RiskMetrics   `json:"risk_metrics"`
	Scores        Scores        `json:"scores"`
	MaxDrawdown   float64       `json:"max_drawdown"`
	LastTradeTime time.Time     `json:"last_trade_time"`

	// Absent unless the live source or the backend supplied them.
	TotalVolume24h *float64   `json:"total_volume_24h,omitempty"`
	TotalPnL24h    *float64   `json:"total_pnl_24h,omitempty"`
	Analytics      *Analytics `json:"analytics,omitempty"`

	DailyPnL []DailyPnL `json:"daily_pnl,omitempty"`
}

// DefaultAnalytics is the zeroed analytics block the dashboard shows when the
// backend sends none.
func DefaultAnalytics() Analytics {
	return Analytics{
		RiskMetrics:       AnalyticsRisk{RiskRating: RiskMedium},
		CopyworthyReasons: []string{},
	}
}

// Normalize fills placeholders for fields the backend left out.
func (w *Wallet) Normalize(now time.Time) {
	if w.RiskMetrics.RiskRating == "" {
		w.RiskMetrics.RiskRating = RiskMedium
	}
	if w.LastUpdated.IsZero() {
		w.LastUpdated = now
	}
	if w.LastTradeTime.IsZero() {
		w.LastTradeTime = now
	}
	if w.TokenMetrics == nil {
		w.TokenMetrics = []TokenMetric{}
	}
	if w.Analytics == nil {
		a := DefaultAnalytics()
		w.Analytics = &a
	} else if w.Analytics.RiskMetrics.RiskRating == "" {
		w.Analytics.RiskMetrics.RiskRating = RiskMedium
	}
}

// EffectiveRisk prefers the analytics rating when present.
func (w Wallet) EffectiveRisk() RiskRating {
	if w.Analytics != nil && w.Analytics.RiskMetrics.RiskRating != "" {
		return w.Analytics.RiskMetrics.RiskRating
	}
	return w.RiskMetrics.RiskRating
}

// Copyworthy reports the backend's copy-trading recommendation.
func (w Wallet) Copyworthy() bool {
	return w.Analytics != nil && w.Analytics.IsCopyworthy
}

// MatchesAddress is the dashboard's case-insensitive substring search.
func (w Wallet) MatchesAddress(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(w.Address), strings.ToLower(term))
}

// FilterByAddress keeps wallets whose address contains term.
func FilterByAddress(wallets []Wallet, term string) []Wallet {
	term = strings.TrimSpace(term)
	if term == "" {
		return wallets
	}
	out := make([]Wallet, 0, len(wallets))
	for _, w := range wallets {
		if w.MatchesAddress(term) {
			out = append(out, w)
		}
	}
	return out
}
