package component

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// StatsHeader renders the overview figures as a row of cards.
type StatsHeader struct {
	stats *domain.DashboardStats
	width int

	card  lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
}

// NewStatsHeader creates an empty header; it renders placeholders until
// SetStats is called.
func NewStatsHeader() *StatsHeader {
	palette := style.DefaultPalette()
	return &StatsHeader{
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 1).
			Width(20),
		label: lipgloss.NewStyle().Foreground(palette.TextSecondary),
		value: lipgloss.NewStyle().Foreground(palette.Text).Bold(true),
	}
}

// SetStats sets the figures to show.
func (h *StatsHeader) SetStats(stats *domain.DashboardStats) *StatsHeader {
	h.stats = stats
	return h
}

// SetWidth sets the component width for responsive layout
func (h *StatsHeader) SetWidth(width int) *StatsHeader {
	h.width = width
	return h
}

// View renders the header
func (h *StatsHeader) View() string {
	type cell struct {
		label, value string
		delta        *float64
	}
	var cells []cell
	if h.stats == nil {
		for _, l := range []string{"Total Wallets", "Total Volume", "Avg ROI", "Avg Win Rate", "Top Performers", "Total Trades"} {
			cells = append(cells, cell{label: l, value: "-"})
		}
	} else {
		s := h.stats
		cells = []cell{
			{"Total Wallets", format.Int(s.TotalWallets), &s.Change.Wallets},
			{"Total Volume", format.Currency(s.TotalVolume), &s.Change.Volume},
			{"Avg ROI", format.Percent(s.AvgROI, 2), &s.Change.ROI},
			{"Avg Win Rate", format.Percent(s.AvgWinRate, 1), &s.Change.WinRate},
			{"Top Performers", format.Int(s.TopPerformers), &s.Change.TopPerformers},
			{"Total Trades", format.Int(s.TotalTrades), &s.Change.Trades},
		}
	}

	blocks := make([]string, 0, len(cells))
	for _, c := range cells {
		body := h.label.Render(c.label) + "\n" + h.value.Render(c.value)
		if c.delta != nil {
			body += " " + style.PnL(*c.delta).Render(format.Signed(*c.delta, 1))
		}
		blocks = append(blocks, h.card.Render(body))
	}

	// three per row on narrow terminals
	if h.width > 0 && h.width < 6*22 {
		top := lipgloss.JoinHorizontal(lipgloss.Top, blocks[:3]...)
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, blocks[3:]...)
		return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}
