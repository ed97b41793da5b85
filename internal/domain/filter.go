package domain

import (
	"fmt"
	"net/url"
	"strconv"
)

// FilterCriteria are the server-side list filters.
type FilterCriteria struct {
	MinROI     float64 `json:"min_roi" mapstructure:"min_roi"`
	MinWinRate float64 `json:"min_win_rate" mapstructure:"min_win_rate"`
	MinTrades  int     `json:"min_trades" mapstructure:"min_trades"`
}

// DefaultFilter matches the dashboard's initial filter values.
func DefaultFilter() FilterCriteria {
	return FilterCriteria{MinROI: 20, MinWinRate: 50, MinTrades: 20}
}

// Validate mirrors the backend's query constraints.
func (f FilterCriteria) Validate() error {
	if f.MinROI < 0 {
		return fmt.Errorf("min ROI must be >= 0, got %v", f.MinROI)
	}
	if f.MinWinRate < 0 || f.MinWinRate > 100 {
		return fmt.Errorf("min win rate must be within 0..100, got %v", f.MinWinRate)
	}
	if f.MinTrades < 0 {
		return fmt.Errorf("min trades must be >= 0, got %d", f.MinTrades)
	}
	return nil
}

// TopQuery is one page request against /wallets/top.
type TopQuery struct {
	Filter FilterCriteria
	Page   int
	Limit  int
}

// Values encodes the query string in the backend's parameter names.
func (q TopQuery) Values() url.Values {
	v := url.Values{}
	v.Set("min_roi", strconv.FormatFloat(q.Filter.MinROI, 'f', -1, 64))
	v.Set("min_win_rate", strconv.FormatFloat(q.Filter.MinWinRate, 'f', -1, 64))
	v.Set("min_trades", strconv.Itoa(q.Filter.MinTrades))
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// TimeFrame selects a window of the daily PnL series on the detail screen.
type TimeFrame string

const (
	TimeFrame7D  TimeFrame = "7d"
	TimeFrame30D TimeFrame = "30d"
	TimeFrameAll TimeFrame = "all"
)

// Days returns the window length, 0 for all.
func (t TimeFrame) Days() int {
	switch t {
	case TimeFrame7D:
		return 7
	case TimeFrame30D:
		return 30
	default:
		return 0
	}
}

// Next cycles through the supported frames.
func (t TimeFrame) Next() TimeFrame {
	switch t {
	case TimeFrame7D:
		return TimeFrame30D
	case TimeFrame30D:
		return TimeFrameAll
	default:
		return TimeFrame7D
	}
}

// ExtendedFilter is the wallets screen's filter panel. Only Criteria is sent
// to the backend; the rest narrows the fetched list locally.
type ExtendedFilter struct {
	Criteria  FilterCriteria
	MinVolume float64
	MinProfit float64
	RiskLevel RiskRating
}

// Match applies the client-side part of the filter.
func (f ExtendedFilter) Match(w Wallet) bool {
	if f.MinVolume > 0 && w.TotalVolume < f.MinVolume {
		return false
	}
	if f.MinProfit > 0 && w.TotalPnLUSD < f.MinProfit {
		return false
	}
	if f.RiskLevel != "" && w.EffectiveRisk() != f.RiskLevel {
		return false
	}
	return true
}

// Apply returns the wallets matching the client-side filter.
func (f ExtendedFilter) Apply(wallets []Wallet) []Wallet {
	out := make([]Wallet, 0, len(wallets))
	for _, w := range wallets {
		if f.Match(w) {
			out = append(out, w)
		}
	}
	return out
}
