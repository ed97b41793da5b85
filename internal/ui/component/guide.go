package component

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// GuideStep is one page of the onboarding guide.
type GuideStep struct {
	Title   string
	Content string
}

// DefaultGuideSteps is the three page tour shown on first launch.
func DefaultGuideSteps() []GuideStep {
	return []GuideStep{
		{
			Title:   "Welcome to CopyTrade Pro!",
			Content: "This dashboard helps you track and analyze the best performing wallets for copy trading.",
		},
		{
			Title:   "Filter Wallets",
			Content: "Press f to filter wallets by ROI, win rate and trade count. The list reloads from page one.",
		},
		{
			Title:   "Detailed Analytics",
			Content: "Press space to expand a wallet card with live figures, or enter to open its full history.",
		},
	}
}

// GuideClosedMsg is emitted when the user finishes or minimizes the guide.
type GuideClosedMsg struct{}

// Guide is the onboarding overlay. Minimized it renders as a one-line hint.
type Guide struct {
	steps     []GuideStep
	current   int
	minimized bool
	width     int

	box   lipgloss.Style
	title lipgloss.Style
	dot   lipgloss.Style
	on    lipgloss.Style
}

// NewGuide creates a guide over steps, visible unless minimized.
func NewGuide(steps []GuideStep, minimized bool) *Guide {
	palette := style.DefaultPalette()
	return &Guide{
		steps:     steps,
		minimized: minimized,
		width:     60,
		box: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(palette.Info).
			Padding(1, 2),
		title: lipgloss.NewStyle().Foreground(palette.Primary).Bold(true),
		dot:   lipgloss.NewStyle().Foreground(palette.TextMuted),
		on:    lipgloss.NewStyle().Foreground(palette.Info),
	}
}

// Visible reports whether the overlay is open.
func (g *Guide) Visible() bool { return !g.minimized && len(g.steps) > 0 }

// Step returns the index of the current page.
func (g *Guide) Step() int { return g.current }

// Maximize reopens the guide at the page it was left on.
func (g *Guide) Maximize() { g.minimized = false }

// Minimize hides the guide.
func (g *Guide) Minimize() { g.minimized = true }

// SetWidth sets the overlay width.
func (g *Guide) SetWidth(width int) *Guide {
	g.width = min(max(width-10, 30), 70)
	return g
}

// Update handles keys while the overlay is open: right/enter/n go forward,
// left/p back, esc/x minimize. Finishing the last page closes it.
func (g *Guide) Update(msg tea.Msg) (*Guide, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !g.Visible() {
		return g, nil
	}
	closed := func() tea.Msg { return GuideClosedMsg{} }

	switch km.String() {
	case "right", "n", "enter", "tab":
		if g.current == len(g.steps)-1 {
			g.minimized = true
			return g, closed
		}
		g.current++
	case "left", "p", "shift+tab":
		if g.current > 0 {
			g.current--
		}
	case "esc", "x", "g":
		g.minimized = true
		return g, closed
	}
	return g, nil
}

// View renders the overlay, or the hint when minimized.
func (g *Guide) View() string {
	if !g.Visible() {
		return style.MutedStyle.Render("? Press g for the platform guide")
	}
	step := g.steps[g.current]

	dots := make([]string, len(g.steps))
	for i := range g.steps {
		if i == g.current {
			dots[i] = g.on.Render("●")
		} else {
			dots[i] = g.dot.Render("○")
		}
	}

	next := "→ Next"
	if g.current == len(g.steps)-1 {
		next = "enter Get Started"
	}
	nav := "← Previous  " + next + "  esc Close"
	if g.current == 0 {
		nav = next + "  esc Close"
	}

	body := strings.Join([]string{
		style.SubHeaderStyle.Render("Platform Guide"),
		"",
		g.title.Render(step.Title),
		lipgloss.NewStyle().Width(g.width - 6).Render(step.Content),
		"",
		strings.Join(dots, " ") + "   " + style.MutedStyle.Render(nav),
	}, "\n")
	return g.box.Width(g.width).Render(body)
}
