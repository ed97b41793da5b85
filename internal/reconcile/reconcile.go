// Package reconcile merges the primary wallet record with the live proxy
// record. Both the wallet card and the search/detail flows go through here so
// the precedence rules live in one place.
package reconcile

import (
	"math"
	"time"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

// PreferLive returns the live value when it is present and truthy, else base.
// A live zero never overrides the base value.
func PreferLive(live *float64, base float64) float64 {
	if !truthy(live) {
		return base
	}
	return *live
}

func truthy(v *float64) bool {
	return v != nil && *v != 0 && !math.IsNaN(*v)
}

// PreferLiveInt is PreferLive for counters.
func PreferLiveInt(live *int, base int) int {
	if live == nil || *live == 0 {
		return base
	}
	return *live
}

// CardView builds what an expanded wallet card displays. base is never
// mutated.
func CardView(base domain.Wallet, live *domain.LiveRecord) domain.Wallet {
	view := base
	if live == nil {
		return view
	}

	view.WinRate = PreferLive(live.WinRate, base.WinRate)
	view.ROIPercentage = PreferLive(live.TotalROIPercentage, base.ROIPercentage)
	view.TotalVolume = PreferLive(live.TotalVolume, base.TotalVolume)
	view.TotalPnLUSD = PreferLive(live.TotalPnLUSD, base.TotalPnLUSD)
	view.AvgTradeSize = PreferLive(live.AvgTradeSize, base.AvgTradeSize)
	view.TotalTrades = PreferLiveInt(live.TotalTokensTraded, base.TotalTrades)

	if truthy(live.TotalVolume24h) {
		view.TotalVolume24h = domain.Float(*live.TotalVolume24h)
	}
	if truthy(live.TotalPnL24h) {
		view.TotalPnL24h = domain.Float(*live.TotalPnL24h)
	}

	if live.Analytics != nil {
		a := *live.Analytics
		view.Analytics = &a
	}
	if len(live.Tokens) > 0 {
		view.TokenMetrics = live.TokenMetrics()
	}
	return view
}

// FromLive synthesizes a wallet record when only the live source knows the
// address. Missing fields take explicit zero defaults.
func FromLive(address string, live *domain.LiveRecord, now time.Time) domain.Wallet {
	w := domain.Wallet{Address: address}
	if live != nil {
		w.TotalPnLUSD = domain.FloatOr(live.TotalPnLUSD, 0)
		w.WinRate = domain.FloatOr(live.WinRate, 0)
		w.TotalTrades = domain.IntOr(live.TotalTokensTraded, 0)
		w.ROIPercentage = domain.FloatOr(live.TotalROIPercentage, 0)
		w.AvgTradeSize = domain.FloatOr(live.AvgTradeSize, 0)
		w.TotalVolume = domain.FloatOr(live.TotalVolume, 0)
		w.TotalVolume24h = live.TotalVolume24h
		w.TotalPnL24h = live.TotalPnL24h
		w.TokenMetrics = live.TokenMetrics()
		if live.Analytics != nil {
			a := *live.Analytics
			w.Analytics = &a
			w.RiskMetrics = domain.RiskMetrics{
				MaxDrawdown: a.RiskMetrics.MaxDrawdown,
				SharpeRatio: a.RiskMetrics.SharpeRatio,
				Volatility:  a.RiskMetrics.Volatility,
				RiskRating:  a.RiskMetrics.RiskRating,
			}
		}
	}
	w.LastUpdated = now
	w.LastTradeTime = now
	w.Normalize(now)
	return w
}

// SpliceLive overlays the live 24h figures and analytics on a primary
// record. Absent live values overwrite too, so a missing live analytics block
// clears the primary one before normalization re-fills the defaults.
func SpliceLive(primary domain.Wallet, live *domain.LiveRecord, now time.Time) domain.Wallet {
	out := primary
	if live == nil {
		return out
	}
	out.TotalVolume24h = live.TotalVolume24h
	out.TotalPnL24h = live.TotalPnL24h
	out.Analytics = nil
	if live.Analytics != nil {
		a := *live.Analytics
		out.Analytics = &a
	}
	out.Normalize(now)
	return out
}
