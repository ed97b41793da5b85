package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline draws a series as block characters, keeping the newest width
// points. Color follows the sign of the series sum.
type Sparkline struct {
	data     []float64
	width    int
	showText bool
}

// NewSparkline creates a new sparkline component
func NewSparkline(width int) *Sparkline {
	return &Sparkline{width: width}
}

// SetData sets the data points for the sparkline
func (s *Sparkline) SetData(data []float64) *Sparkline {
	s.data = make([]float64, len(data))
	copy(s.data, data)
	return s
}

// SetWidth sets the width of the sparkline
func (s *Sparkline) SetWidth(width int) *Sparkline {
	s.width = width
	return s
}

// ShowText appends the trend arrow.
func (s *Sparkline) ShowText(show bool) *Sparkline {
	s.showText = show
	return s
}

func (s *Sparkline) window() []float64 {
	if s.width > 0 && len(s.data) > s.width {
		return s.data[len(s.data)-s.width:]
	}
	return s.data
}

// View renders the sparkline
func (s *Sparkline) View() string {
	palette := style.DefaultPalette()
	data := s.window()
	if len(data) == 0 {
		return lipgloss.NewStyle().Foreground(palette.TextMuted).Render(strings.Repeat("▁", max(s.width, 1)))
	}

	var sum float64
	for _, v := range data {
		sum += v
	}
	color := palette.TextMuted
	switch {
	case sum > 0:
		color = palette.Profit
	case sum < 0:
		color = palette.Loss
	}

	out := lipgloss.NewStyle().Foreground(color).Render(Spark(data))
	if s.showText {
		out += " " + lipgloss.NewStyle().Foreground(color).Render(s.Trend())
	}
	return out
}

// Spark maps each value onto the eight block heights between the series
// min and max. A flat series renders mid-height.
func Spark(data []float64) string {
	if len(data) == 0 {
		return ""
	}
	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		return strings.Repeat(string(sparkChars[3]), len(data))
	}

	var b strings.Builder
	for _, v := range data {
		idx := int((v - lo) / (hi - lo) * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// Trend compares the last point of the window with the first.
func (s *Sparkline) Trend() string {
	data := s.window()
	if len(data) < 2 {
		return "→"
	}
	first, last := data[0], data[len(data)-1]
	switch {
	case last > first:
		return "↗"
	case last < first:
		return "↘"
	default:
		return "→"
	}
}
