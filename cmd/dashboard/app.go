package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/screen"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// AppModel represents the main TUI application model
type AppModel struct {
	router *router.Router
	svc    *ui.Services
	sender *ui.UpdateSender

	width  int
	height int

	// errors logged since start, shown as a badge outside the logs screen
	errors int
}

// NewAppModel creates the application model rooted at the dashboard. A nil
// sender disables the log badge.
func NewAppModel(svc *ui.Services, sender *ui.UpdateSender) *AppModel {
	return &AppModel{
		router: router.New(screen.NewDashboardScreen(svc)),
		svc:    svc,
		sender: sender,
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), m.listen())
}

func (m *AppModel) listen() tea.Cmd {
	if m.sender == nil {
		return nil
	}
	return m.sender.Listen()
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// last line is the error badge
		m.router.SetSize(msg.Width, max(msg.Height-1, 0))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Close()
			return m, tea.Quit
		}
		return m, m.forward(msg)

	case ui.RouterMsg:
		return m, m.handleNavigation(msg)

	case ui.LogMsg:
		if msg.Level >= zapcore.ErrorLevel {
			m.errors++
		}
		// the logs screen reloads on every LogMsg
		return m, tea.Batch(m.forward(msg), m.listen())
	}

	return m, m.forward(msg)
}

func (m *AppModel) forward(msg tea.Msg) tea.Cmd {
	updated, cmd := m.router.Update(msg)
	m.router = updated.(*router.Router)
	return cmd
}

// handleNavigation handles navigation to different screens
func (m *AppModel) handleNavigation(msg ui.RouterMsg) tea.Cmd {
	var next router.Screen

	switch msg.To {
	case ui.RouteDashboard:
		// the dashboard is always the root
		return m.router.Clear()

	case ui.RouteWallets:
		next = screen.NewWalletsScreen(m.svc)

	case ui.RouteSearch:
		next = screen.NewSearchScreen(m.svc)

	case ui.RouteDetail:
		if msg.Address == "" {
			return nil
		}
		next = screen.NewDetailScreen(m.svc, msg.Address)

	case ui.RouteLogs:
		if _, ok := m.router.Current().(*screen.LogsScreen); ok {
			return nil
		}
		if m.svc.Logs == nil {
			return func() tea.Msg { return ui.StatusMsg{Message: "Log buffer is not available"} }
		}
		m.errors = 0
		next = screen.NewLogsScreen(m.svc.Logs)

	default:
		// Unknown route, stay on current screen
		return nil
	}

	return m.router.Push(next)
}

// Close releases every screen's pending requests.
func (m *AppModel) Close() {
	m.router.CloseAll()
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	badge := ""
	if _, onLogs := m.router.Current().(*screen.LogsScreen); m.errors > 0 && !onLogs {
		badge = style.ErrorStyle.Render(fmt.Sprintf("⚠ %d error(s) logged, press L on the dashboard to view", m.errors))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.router.View(), badge)
}
