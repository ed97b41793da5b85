package format

import (
	"fmt"
	"strings"
)

const (
	DefaultExplorerURL = "https://solscan.io/account/%s"
	DefaultChartURL    = "https://dexscreener.com/solana/%s"
)

// SocialLink is one entry of the footer.
type SocialLink struct {
	Name string `mapstructure:"name" json:"name"`
	URL  string `mapstructure:"url" json:"url"`
}

// DefaultSocialLinks are shown when the config carries none.
func DefaultSocialLinks() []SocialLink {
	return []SocialLink{
		{Name: "X", URL: "https://x.com/Copytrade_Pro"},
		{Name: "Telegram", URL: "https://t.me/Copytradepro_sol"},
		{Name: "pump.fun", URL: "https://pump.fun"},
	}
}

// Links templates outbound URLs for wallets and tokens.
type Links struct {
	ExplorerURL string
	ChartURL    string
}

// DefaultLinks uses Solscan and DexScreener.
func DefaultLinks() Links {
	return Links{ExplorerURL: DefaultExplorerURL, ChartURL: DefaultChartURL}
}

// Explorer returns the account page for a wallet.
func (l Links) Explorer(address string) string {
	return expand(l.ExplorerURL, DefaultExplorerURL, address)
}

// Chart returns the chart page for a token.
func (l Links) Chart(tokenAddress string) string {
	return expand(l.ChartURL, DefaultChartURL, tokenAddress)
}

func expand(tmpl, fallback, address string) string {
	if tmpl == "" {
		tmpl = fallback
	}
	if !strings.Contains(tmpl, "%s") {
		return strings.TrimRight(tmpl, "/") + "/" + address
	}
	return fmt.Sprintf(tmpl, address)
}
