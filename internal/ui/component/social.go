package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// SocialFooter renders the project links at the bottom of the dashboard.
func SocialFooter(links []format.SocialLink, width int) string {
	if len(links) == 0 {
		return ""
	}
	palette := style.DefaultPalette()
	name := lipgloss.NewStyle().Foreground(palette.Primary).Bold(true)
	url := lipgloss.NewStyle().Foreground(palette.TextMuted).Underline(true)

	items := make([]string, 0, len(links))
	for _, l := range links {
		items = append(items, name.Render(l.Name)+" "+url.Render(l.URL))
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(items, style.MutedStyle.Render("  │  ")))
}
