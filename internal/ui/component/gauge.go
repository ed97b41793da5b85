package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// Gauge is a horizontal bar for bounded metrics such as win rate or scores.
type Gauge struct {
	value float64
	max   float64
	width int

	// at or above good renders green, at or above fair yellow, else red
	good float64
	fair float64
}

// NewGauge creates a 0..100 gauge.
func NewGauge(width int) *Gauge {
	return &Gauge{max: 100, width: width, good: 60, fair: 40}
}

// SetValue sets the current value
func (g *Gauge) SetValue(v float64) *Gauge {
	g.value = v
	return g
}

// SetMax sets the full-scale value.
func (g *Gauge) SetMax(v float64) *Gauge {
	if v > 0 {
		g.max = v
	}
	return g
}

// SetThresholds sets the color bands as fractions of max in percent.
func (g *Gauge) SetThresholds(good, fair float64) *Gauge {
	g.good, g.fair = good, fair
	return g
}

// View renders the gauge
func (g *Gauge) View() string {
	palette := style.DefaultPalette()
	if g.width <= 0 {
		return ""
	}

	v := g.value
	if math.IsNaN(v) {
		v = 0
	}
	ratio := math.Min(math.Max(v/g.max, 0), 1)
	filled := int(math.Round(ratio * float64(g.width)))

	pct := ratio * 100
	color := palette.Loss
	switch {
	case pct >= g.good:
		color = palette.Profit
	case pct >= g.fair:
		color = palette.Warning
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(palette.BackgroundAlt).Render(strings.Repeat("░", g.width-filled))
	return bar + " " + lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%.1f", v))
}
