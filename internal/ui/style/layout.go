package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0, 0, 0)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(palette.TextSecondary)
)

// Layout styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 1)

	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 1)

	BannerStyle = lipgloss.NewStyle().
			Foreground(palette.Error).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Error).
			Padding(0, 1)
)

// Status styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(palette.Info)
)

// Metric styles
var (
	ProfitStyle = lipgloss.NewStyle().
			Foreground(palette.Profit).
			Bold(true)

	LossStyle = lipgloss.NewStyle().
			Foreground(palette.Loss).
			Bold(true)

	CopyworthyStyle = lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Accent).
			Padding(0, 1).
			Bold(true)
)

// PnL picks the profit or loss style by sign. Zero renders muted.
func PnL(v float64) lipgloss.Style {
	switch {
	case v > 0:
		return ProfitStyle
	case v < 0:
		return LossStyle
	default:
		return MutedStyle
	}
}

// AdaptiveJoinHorizontal stacks blocks vertically on narrow terminals.
func AdaptiveJoinHorizontal(width int, blocks ...string) string {
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// AdaptiveWidth returns percentage of width, or nearly all of it when narrow.
func AdaptiveWidth(width, percentage int) int {
	if width < 80 {
		return width - 4
	}
	return (width * percentage) / 100
}
