package domain

import "time"

// LiveToken is one token entry of the live proxy payload. Field names follow
// the proxy, not the stored schema.
type LiveToken struct {
	TokenSymbol     string   `json:"token_symbol"`
	TokenAddress    string   `json:"token_address"`
	NumSwaps        *int     `json:"num_swaps"`
	TotalBuyUSD     *float64 `json:"total_buy_usd"`
	TotalSellUSD    *float64 `json:"total_sell_usd"`
	TotalPnLUSD     *float64 `json:"total_pnl_usd"`
	ROIPercentage   *float64 `json:"roi_percentage"`
	AverageBuyPrice *float64 `json:"average_buy_price"`
	TotalBuyAmount  *float64 `json:"total_buy_amount"`
	LastTrade       *int64   `json:"last_trade"`
}

// ToTokenMetric converts the proxy shape into the stored shape.
func (t LiveToken) ToTokenMetric() TokenMetric {
	m := TokenMetric{
		Symbol:        t.TokenSymbol,
		TokenAddress:  t.TokenAddress,
		NumSwaps:      IntOr(t.NumSwaps, 0),
		TotalBuyUSD:   FloatOr(t.TotalBuyUSD, 0),
		TotalSellUSD:  FloatOr(t.TotalSellUSD, 0),
		TotalPnLUSD:   FloatOr(t.TotalPnLUSD, 0),
		ROIPercentage: FloatOr(t.ROIPercentage, 0),
		AvgPositionSize: FloatOr(t.AverageBuyPrice, 0) *
			FloatOr(t.TotalBuyAmount, 0),
	}
	if t.LastTrade != nil {
		m.LastTradeTime = time.Unix(*t.LastTrade, 0).UTC()
	}
	return m
}

// LiveRecord is the supplemental payload served by the live proxy. Numeric
// fields are pointers so an absent field is distinguishable from zero.
type LiveRecord struct {
	TotalVolume24h     *float64    `json:"total_volume_24h"`
	TotalPnL24h        *float64    `json:"total_pnl_24h"`
	Tokens             []LiveToken `json:"tokens"`
	WinRate            *float64    `json:"winrate"`
	TotalTokensTraded  *int        `json:"total_tokens_traded"`
	TotalROIPercentage *float64    `json:"total_roi_percentage"`
	TotalVolume        *float64    `json:"total_volume"`
	TotalPnLUSD        *float64    `json:"total_pnl_usd"`
	AvgTradeSize       *float64    `json:"avg_trade_size"`
	Analytics          *Analytics  `json:"analytics,omitempty"`
}

// TokenMetrics converts all proxy tokens.
func (r *LiveRecord) TokenMetrics() []TokenMetric {
	if r == nil || len(r.Tokens) == 0 {
		return []TokenMetric{}
	}
	out := make([]TokenMetric, 0, len(r.Tokens))
	for _, t := range r.Tokens {
		out = append(out, t.ToTokenMetric())
	}
	return out
}

// LiveEnvelope wraps the proxy response.
type LiveEnvelope struct {
	Success bool        `json:"success"`
	Data    *LiveRecord `json:"data"`
}

// FloatOr dereferences p or returns def.
func FloatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// IntOr dereferences p or returns def.
func IntOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
