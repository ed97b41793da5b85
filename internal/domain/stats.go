package domain

// StatsChange carries the trend deltas shown under each stat card.
type StatsChange struct {
	Wallets       float64 `json:"wallets"`
	Volume        float64 `json:"volume"`
	Trades        float64 `json:"trades"`
	ROI           float64 `json:"roi"`
	WinRate       float64 `json:"win_rate"`
	TopPerformers float64 `json:"top_performers"`
}

// DashboardStats is the normalized /stats/overview payload.
type DashboardStats struct {
	TotalWallets  int         `json:"total_wallets"`
	TotalVolume   float64     `json:"total_volume"`
	TotalTrades   int         `json:"total_trades"`
	AvgROI        float64     `json:"avg_roi"`
	AvgWinRate    float64     `json:"avg_winrate"`
	TopPerformers int         `json:"top_performers"`
	Change        StatsChange `json:"change"`
}
