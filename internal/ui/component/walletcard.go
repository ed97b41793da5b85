package component

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// CardStatus is the per-card UI state the list passes in.
type CardStatus struct {
	Selected   bool
	Expanded   bool
	Refreshing bool
	HasLive    bool
	Err        error
}

// WalletCard renders one wallet of a list: a summary line, and when
// expanded a detail panel with live figures and analytics.
type WalletCard struct {
	width int
	now   func() time.Time

	line     lipgloss.Style
	selected lipgloss.Style
	panel    lipgloss.Style
	label    lipgloss.Style
}

// NewWalletCard creates a card renderer.
func NewWalletCard() *WalletCard {
	palette := style.DefaultPalette()
	return &WalletCard{
		width: 100,
		now:   time.Now,
		line:  lipgloss.NewStyle().Foreground(palette.Text),
		selected: lipgloss.NewStyle().
			Foreground(palette.Text).
			Background(palette.BackgroundAlt).
			Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 1).
			MarginLeft(2),
		label: lipgloss.NewStyle().Foreground(palette.TextSecondary),
	}
}

// SetWidth sets the width cards are laid out in.
func (c *WalletCard) SetWidth(width int) *WalletCard {
	c.width = width
	return c
}

// SetClock overrides the time source used for relative times.
func (c *WalletCard) SetClock(now func() time.Time) *WalletCard {
	c.now = now
	return c
}

// Render draws w with the given status.
func (c *WalletCard) Render(w domain.Wallet, st CardStatus) string {
	marker := "▸"
	if st.Expanded {
		marker = "▾"
	}

	risk := w.EffectiveRisk()
	riskText := lipgloss.NewStyle().Foreground(format.RiskColor(risk)).Render(string(orUnknown(risk)))

	parts := []string{
		marker + " " + format.ShortAddress(w.Address),
		"ROI " + style.PnL(w.ROIPercentage).Render(format.Signed(w.ROIPercentage, 2)),
		"Win " + format.Percent(w.WinRate, 1),
		"Trades " + format.Int(w.TotalTrades),
		"PnL " + style.PnL(w.TotalPnLUSD).Render(format.Currency(w.TotalPnLUSD)),
		riskText,
		style.MutedStyle.Render(format.TimeAgoShort(w.LastTradeTime, c.now())),
	}
	if w.Copyworthy() {
		parts = append(parts, style.CopyworthyStyle.Render("★ Copyworthy"))
	}

	lineStyle := c.line
	if st.Selected {
		lineStyle = c.selected
	}
	header := lineStyle.Render(strings.Join(parts, "  "))
	if !st.Expanded {
		return header
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, c.renderPanel(w, st))
}

func (c *WalletCard) renderPanel(w domain.Wallet, st CardStatus) string {
	var b strings.Builder

	kv := func(label, value string) string {
		return c.label.Render(label+": ") + value
	}

	b.WriteString(strings.Join([]string{
		kv("Volume", format.Currency(w.TotalVolume)),
		kv("24h Volume", optCurrency(w.TotalVolume24h)),
		kv("24h PnL", optPnL(w.TotalPnL24h)),
		kv("Avg Trade", format.Currency(w.AvgTradeSize)),
	}, "   "))
	b.WriteString("\n")

	if a := w.Analytics; a != nil {
		b.WriteString(strings.Join([]string{
			kv("Avg Hold", format.HoldTime(a.AvgHoldTimeHours)),
			kv("Swaps/Token", format.Number(a.AvgSwapsPerToken)),
			kv("Avg Buy", format.Currency(a.AvgBuySize)),
			kv("Drawdown", format.Percent(a.RiskMetrics.MaxDrawdown, 2)),
			kv("Sharpe", format.Number(a.RiskMetrics.SharpeRatio)),
		}, "   "))
		b.WriteString("\n")
		for _, reason := range a.CopyworthyReasons {
			b.WriteString(style.SuccessStyle.Render("✓ ") + reason + "\n")
		}
	}

	if len(w.TokenMetrics) > 0 {
		b.WriteString(c.label.Render("Top tokens: "))
		n := min(len(w.TokenMetrics), 5)
		tokens := make([]string, 0, n)
		for _, t := range w.TokenMetrics[:n] {
			tokens = append(tokens, fmt.Sprintf("%s %s",
				format.Placeholder(t.Symbol), style.PnL(t.TotalPnLUSD).Render(format.Currency(t.TotalPnLUSD))))
		}
		b.WriteString(strings.Join(tokens, ", "))
		b.WriteString("\n")
	}

	switch {
	case st.Refreshing:
		b.WriteString(style.InfoStyle.Render("⟳ Refreshing live data..."))
	case st.Err != nil && !st.HasLive:
		b.WriteString(style.WarningStyle.Render("Live data unavailable, showing stored figures"))
	default:
		b.WriteString(style.MutedStyle.Render("Updated " + format.TimeAgo(w.LastUpdated, c.now())))
	}

	panelWidth := c.width - 6
	if panelWidth < 20 {
		panelWidth = 20
	}
	return c.panel.Width(panelWidth).Render(b.String())
}

func optCurrency(v *float64) string {
	if v == nil {
		return "-"
	}
	return format.Currency(*v)
}

func optPnL(v *float64) string {
	if v == nil {
		return "-"
	}
	return style.PnL(*v).Render(format.Currency(*v))
}

func orUnknown(r domain.RiskRating) domain.RiskRating {
	if r == "" {
		return "Unknown"
	}
	return r
}
