package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// HelpBar shows the screen's key bindings and an optional status segment.
type HelpBar struct {
	keyBindings []key.Binding
	width       int
	status      string

	keyStyle       lipgloss.Style
	descStyle      lipgloss.Style
	sepStyle       lipgloss.Style
	statusStyle    lipgloss.Style
	containerStyle lipgloss.Style

	compact bool
}

// NewHelpBar creates a new help bar component
func NewHelpBar() *HelpBar {
	palette := style.DefaultPalette()

	return &HelpBar{
		width: 80,

		keyStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		descStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		sepStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		statusStyle: lipgloss.NewStyle().
			Foreground(palette.Warning),

		containerStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Margin(1, 0, 0, 0),
	}
}

// SetKeyBindings sets the key bindings to display
func (h *HelpBar) SetKeyBindings(bindings []key.Binding) *HelpBar {
	h.keyBindings = bindings
	return h
}

// SetWidth sets the help bar width
func (h *HelpBar) SetWidth(width int) *HelpBar {
	h.width = width
	return h
}

// SetCompact shows keys only.
func (h *HelpBar) SetCompact(compact bool) *HelpBar {
	h.compact = compact
	return h
}

// SetStatus sets the text rendered before the bindings ("" hides it).
func (h *HelpBar) SetStatus(status string) *HelpBar {
	h.status = status
	return h
}

// View renders the help bar
func (h *HelpBar) View() string {
	if len(h.keyBindings) == 0 && h.status == "" {
		return ""
	}

	availableWidth := h.width - 4
	var items []string
	if h.status != "" {
		items = append(items, h.statusStyle.Render(h.status))
	}
	items = append(items, h.render()...)

	separator := h.sepStyle.Render(" • ")
	content := strings.Join(items, separator)
	if lipgloss.Width(content) > availableWidth {
		content = h.wrapContent(items, availableWidth, separator)
	}

	return h.containerStyle.Width(h.width).Render(content)
}

func (h *HelpBar) render() []string {
	items := make([]string, 0, len(h.keyBindings))
	for _, binding := range h.keyBindings {
		if !binding.Enabled() {
			continue
		}
		help := binding.Help()
		if help.Key == "" {
			continue
		}

		item := h.keyStyle.Render(help.Key)
		if !h.compact && help.Desc != "" {
			item += " " + h.descStyle.Render(help.Desc)
		}
		items = append(items, item)
	}
	return items
}

func (h *HelpBar) wrapContent(items []string, maxWidth int, separator string) string {
	var lines []string
	var currentLine []string
	currentWidth := 0
	sepWidth := lipgloss.Width(separator)

	for _, item := range items {
		itemWidth := lipgloss.Width(item) + sepWidth

		if currentWidth+itemWidth > maxWidth && len(currentLine) > 0 {
			lines = append(lines, strings.Join(currentLine, separator))
			currentLine = []string{item}
			currentWidth = itemWidth
		} else {
			currentLine = append(currentLine, item)
			currentWidth += itemWidth
		}
	}
	if len(currentLine) > 0 {
		lines = append(lines, strings.Join(currentLine, separator))
	}

	return strings.Join(lines, "\n")
}
