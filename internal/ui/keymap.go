package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding
	Help key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	// Screens
	Wallets key.Binding
	Search  key.Binding
	Logs    key.Binding
	Guide   key.Binding

	// Wallet lists
	Expand   key.Binding
	Refresh  key.Binding
	Reload   key.Binding
	Filter   key.Binding
	Find     key.Binding
	LoadMore key.Binding
	Export   key.Binding

	// Detail
	TimeFrame key.Binding
	Links     key.Binding

	// Logs
	FilterInfo  key.Binding
	FilterWarn  key.Binding
	FilterError key.Binding
	FilterAll   key.Binding
	Tail        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),

		Wallets: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "all wallets"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search"),
		),
		Logs: key.NewBinding(
			key.WithKeys("f12", "L"),
			key.WithHelp("F12", "logs"),
		),
		Guide: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "guide"),
		),

		Expand: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "expand"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R", "f5"),
			key.WithHelp("R/F5", "reload"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filters"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find address"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),

		TimeFrame: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "time frame"),
		),
		Links: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "links"),
		),

		FilterInfo: key.NewBinding(
			key.WithKeys("f1", "3"),
			key.WithHelp("F1", "info"),
		),
		FilterWarn: key.NewBinding(
			key.WithKeys("f2", "2"),
			key.WithHelp("F2", "warn"),
		),
		FilterError: key.NewBinding(
			key.WithKeys("f3", "1"),
			key.WithHelp("F3", "error"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("f4", "4"),
			key.WithHelp("F4", "all"),
		),
		Tail: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tail"),
		),
	}
}

// ShortHelp returns key help text for the current context
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns extended help text for the current context
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Expand},
		{k.Refresh, k.Reload, k.Filter, k.Find, k.LoadMore},
		{k.Wallets, k.Search, k.Export, k.Guide},
		{k.Logs, k.Back, k.Quit},
	}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteDashboard:
		return []key.Binding{k.Up, k.Down, k.Expand, k.Enter, k.Filter, k.Find, k.Reload, k.Wallets, k.Search, k.Export, k.Guide, k.Logs, k.Quit}
	case RouteWallets:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Filter, k.LoadMore, k.Export, k.Reload, k.Back, k.Quit}
	case RouteSearch:
		return []key.Binding{k.Enter, k.Refresh, k.Back}
	case RouteDetail:
		return []key.Binding{k.Refresh, k.TimeFrame, k.Links, k.Back, k.Quit}
	case RouteLogs:
		return []key.Binding{k.FilterError, k.FilterWarn, k.FilterInfo, k.FilterAll, k.Tail, k.Back, k.Quit}
	default:
		return k.ShortHelp()
	}
}
