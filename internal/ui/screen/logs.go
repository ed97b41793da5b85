package screen

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/logger"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// RefreshLogsMsg is sent to trigger a refresh
type RefreshLogsMsg struct {
	Timestamp time.Time
}

// LogsScreen shows the in-memory log buffer: request failures of cards and
// pagination end up here rather than in a banner.
type LogsScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	buffer *logger.LogBuffer

	helpBar *component.HelpBar
	table   *component.Table

	// State
	entries         []logger.LogEntry
	minLevel        zapcore.Level
	version         uint64
	refreshInterval time.Duration
	lastUpdate      time.Time
	tailMode        bool
	maxLogEntries   int
	closed          bool

	// Styling
	headerStyle lipgloss.Style
	debugStyle  lipgloss.Style
	infoStyle   lipgloss.Style
	warnStyle   lipgloss.Style
	errorStyle  lipgloss.Style
}

// NewLogsScreen creates a new logs screen
func NewLogsScreen(buffer *logger.LogBuffer) *LogsScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	s := &LogsScreen{
		keyMap:          keyMap,
		buffer:          buffer,
		minLevel:        zapcore.DebugLevel,
		refreshInterval: 500 * time.Millisecond,
		tailMode:        true,
		maxLogEntries:   1000,

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true),
		debugStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
		infoStyle: lipgloss.NewStyle().
			Foreground(palette.Text),
		warnStyle: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true),
		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true),
	}

	s.table = component.NewTable().
		AddColumn("Time", 10, lipgloss.Left).
		AddColumn("Level", 7, lipgloss.Center).
		AddColumn("Component", 20, lipgloss.Left).
		AddColumn("Message", 0, lipgloss.Left).
		SetEmptyText("No log entries match the current filter")
	s.helpBar = component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteLogs))

	return s
}

// Init loads the buffer and starts polling it
func (s *LogsScreen) Init() tea.Cmd {
	s.reload()
	return s.tick()
}

// Close stops polling.
func (s *LogsScreen) Close() {
	s.closed = true
}

func (s *LogsScreen) tick() tea.Cmd {
	return tea.Tick(s.refreshInterval, func(t time.Time) tea.Msg {
		return RefreshLogsMsg{Timestamp: t}
	})
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit
		case key.Matches(msg, s.keyMap.Up):
			s.table.MoveUp()
			s.tailMode = false
		case key.Matches(msg, s.keyMap.Down):
			s.table.MoveDown()
		case key.Matches(msg, s.keyMap.Tail):
			s.tailMode = !s.tailMode
			if s.tailMode {
				s.table.GotoBottom()
			}
		case key.Matches(msg, s.keyMap.FilterError):
			s.setLevel(zapcore.ErrorLevel)
		case key.Matches(msg, s.keyMap.FilterWarn):
			s.setLevel(zapcore.WarnLevel)
		case key.Matches(msg, s.keyMap.FilterInfo):
			s.setLevel(zapcore.InfoLevel)
		case key.Matches(msg, s.keyMap.FilterAll):
			s.setLevel(zapcore.DebugLevel)
		}

	case RefreshLogsMsg:
		if s.closed {
			return s, nil
		}
		s.lastUpdate = msg.Timestamp
		if v := s.buffer.Version(); v != s.version {
			s.reload()
		}
		return s, s.tick()

	case ui.LogMsg:
		s.reload()
	}
	return s, nil
}

func (s *LogsScreen) setLevel(level zapcore.Level) {
	s.minLevel = level
	s.reload()
}

func (s *LogsScreen) reload() {
	s.version = s.buffer.Version()
	s.entries = s.buffer.GetRecentLogsAtLevel(s.maxLogEntries, s.minLevel)

	rows := make([][]string, len(s.entries))
	for i, e := range s.entries {
		rows[i] = []string{
			e.Timestamp.Local().Format("15:04:05"),
			strings.ToUpper(e.Level),
			e.Logger,
			e.Message + formatFields(e.Fields),
		}
	}
	s.table.SetRows(rows)
	for i, e := range s.entries {
		s.table.SetRowStyle(i, s.levelStyle(e.Level))
	}
	if s.tailMode {
		s.table.GotoBottom()
	}
}

// formatFields appends structured fields in a stable order.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

func (s *LogsScreen) levelStyle(level string) lipgloss.Style {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return s.infoStyle
	}
	switch {
	case l >= zapcore.ErrorLevel:
		return s.errorStyle
	case l == zapcore.WarnLevel:
		return s.warnStyle
	case l == zapcore.DebugLevel:
		return s.debugStyle
	default:
		return s.infoStyle
	}
}

// View renders the logs screen
func (s *LogsScreen) View() string {
	var content strings.Builder

	title := "📜 Application Logs"
	if s.tailMode {
		title += " (Tail mode)"
	}
	content.WriteString(style.TitleStyle.Render(title))
	content.WriteString("\n")
	content.WriteString(s.renderStatusBar())
	content.WriteString("\n")
	content.WriteString(s.table.View())
	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())
	return content.String()
}

func (s *LogsScreen) renderStatusBar() string {
	total, spilled := s.buffer.GetStats()
	parts := []string{
		fmt.Sprintf("Shown: %d", len(s.entries)),
		fmt.Sprintf("Total: %d", total),
		fmt.Sprintf("Filter: ≥ %s", strings.ToUpper(s.minLevel.String())),
	}
	if spilled > 0 {
		parts = append(parts, fmt.Sprintf("Spilled to file: %d", spilled))
	}
	if !s.lastUpdate.IsZero() {
		parts = append(parts, "Updated: "+s.lastUpdate.Format("15:04:05"))
	}
	return s.headerStyle.Render(strings.Join(parts, " • "))
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.table.SetSize(width-2, max(height-6, 5))
}

// EntryCount returns the number of entries shown.
func (s *LogsScreen) EntryCount() int {
	return len(s.entries)
}
