package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/export"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// WalletsScreen lists every tracked wallet in a table with the advanced
// filter panel. Server-side criteria reload the list; volume, profit and
// risk narrow what is already loaded.
type WalletsScreen struct {
	closable
	width  int
	height int
	keyMap ui.KeyMap
	svc    *ui.Services
	dash   *service.Dashboard
	logger *zap.Logger
	now    func() time.Time

	helpBar    *component.HelpBar
	table      *component.Table
	filterForm *component.Form
	spinner    spinner.Model

	gen         uint64
	filter      domain.ExtendedFilter
	all         []domain.Wallet
	visible     []domain.Wallet
	tracked     int
	hasMore     bool
	loading     bool
	loadingMore bool
	loadFailed  bool
	showFilters bool
	status      string
}

// NewWalletsScreen creates the wallets screen
func NewWalletsScreen(svc *ui.Services) *WalletsScreen {
	keyMap := ui.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.InfoStyle

	s := &WalletsScreen{
		closable: newClosable(),
		keyMap:   keyMap,
		svc:      svc,
		dash:     svc.NewDashboard(),
		logger:   svc.Logger.Named("wallets_screen"),
		now:      time.Now,
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteWallets)),
		spinner:  sp,
		filter:   domain.ExtendedFilter{Criteria: svc.DefaultFilter},
	}
	s.filterForm = component.NewExtendedFilterForm(s.filter)
	s.table = component.NewTable().
		AddColumn("Wallet", 15, lipgloss.Left).
		AddColumn("ROI", 12, lipgloss.Right).
		AddColumn("Win Rate", 10, lipgloss.Right).
		AddColumn("Trades", 9, lipgloss.Right).
		AddColumn("PnL", 16, lipgloss.Right).
		AddColumn("Volume", 16, lipgloss.Right).
		AddColumn("Risk", 8, lipgloss.Center).
		AddColumn("Last Trade", 0, lipgloss.Left).
		SetEmptyText("No wallets match the current filters")
	return s
}

// Init loads page 1
func (s *WalletsScreen) Init() tea.Cmd {
	return s.reload()
}

func (s *WalletsScreen) reload() tea.Cmd {
	s.gen++
	s.loading = true
	s.loadingMore = false
	return tea.Batch(s.spinner.Tick, loadCmd(s.ctx, s.dash, s.gen, s.filter.Criteria))
}

// CapturesInput is true while the filter panel is open.
func (s *WalletsScreen) CapturesInput() bool {
	return s.showFilters
}

// Update handles screen updates
func (s *WalletsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.showFilters {
			return s.handleFilterKey(msg)
		}
		return s.handleKey(msg)

	case spinner.TickMsg:
		if !s.loading && !s.loadingMore {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case walletsLoadedMsg:
		if msg.gen != s.gen || ignorable(msg.err) {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.loadFailed = true
			return s, nil
		}
		s.loadFailed = false
		s.tracked = msg.snap.Stats.TotalWallets
		s.all = msg.snap.Wallets
		s.hasMore = msg.snap.HasMore
		s.table.SetSelectedRow(0)
		s.applyFilter()

	case pageLoadedMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.loadingMore = false
		if msg.err != nil {
			return s, nil
		}
		s.all = msg.wallets
		s.hasMore = msg.hasMore
		s.applyFilter()

	case exportDoneMsg:
		s.status = msg.status()
	}
	return s, nil
}

func (s *WalletsScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, s.keyMap.Quit):
		return s, tea.Quit

	case key.Matches(msg, s.keyMap.Up):
		s.table.MoveUp()

	case key.Matches(msg, s.keyMap.Down):
		s.table.MoveDown()
		if s.table.GetSelectedRow() == s.table.GetRowCount()-1 {
			return s, s.loadMore()
		}

	case key.Matches(msg, s.keyMap.LoadMore):
		return s, s.loadMore()

	case key.Matches(msg, s.keyMap.Enter):
		if i := s.table.GetSelectedRow(); i < len(s.visible) {
			return s, navigate(ui.RouteDetail, s.visible[i].Address)
		}

	case key.Matches(msg, s.keyMap.Reload):
		return s, s.reload()

	case key.Matches(msg, s.keyMap.Filter):
		s.showFilters = true
		s.filterForm = component.NewExtendedFilterForm(s.filter).SetWidth(s.width - 8)

	case key.Matches(msg, s.keyMap.Export):
		return s, exportCmd(s.svc, s.all, export.Options{
			Format: export.FormatCSV,
			Label:  "wallets",
			Filter: s.filter,
		})
	}
	return s, nil
}

func (s *WalletsScreen) handleFilterKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.showFilters = false
		return s, nil
	case "enter":
		next, err := component.ReadExtended(s.filterForm)
		if err != nil {
			return s, nil
		}
		s.showFilters = false
		serverChanged := next.Criteria != s.filter.Criteria
		s.filter = next
		if serverChanged {
			s.logger.Info("Server filters changed, reloading")
			return s, s.reload()
		}
		s.applyFilter()
		return s, nil
	}
	var cmd tea.Cmd
	s.filterForm, cmd = s.filterForm.Update(msg)
	return s, cmd
}

func (s *WalletsScreen) loadMore() tea.Cmd {
	if s.loading || s.loadingMore || !s.hasMore {
		return nil
	}
	s.loadingMore = true
	return tea.Batch(s.spinner.Tick, loadMoreCmd(s.ctx, s.dash, s.gen))
}

func (s *WalletsScreen) applyFilter() {
	s.visible = s.filter.Apply(s.all)
	now := s.now()

	rows := make([][]string, len(s.visible))
	for i, w := range s.visible {
		risk := w.EffectiveRisk()
		rows[i] = []string{
			format.ShortAddress(w.Address),
			format.Signed(w.ROIPercentage, 2),
			format.Percent(w.WinRate, 1),
			format.Int(w.TotalTrades),
			format.Currency(w.TotalPnLUSD),
			format.Currency(w.TotalVolume),
			string(risk),
			format.TimeAgoShort(w.LastTradeTime, now),
		}
	}
	s.table.SetRows(rows)
	for i, w := range s.visible {
		if w.Copyworthy() {
			s.table.SetRowStyle(i, style.CopyworthyStyle)
		}
	}
}

// View renders the wallets screen
func (s *WalletsScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(style.TitleStyle.Render("All Wallets"))
	content.WriteString("\n")
	content.WriteString(s.summaryLine())
	content.WriteString("\n")

	if s.loadFailed {
		content.WriteString(style.BannerStyle.Render(service.LoadFailedMessage))
		content.WriteString("\n")
	}

	switch {
	case s.showFilters:
		content.WriteString(style.ActivePanelStyle.Render(s.filterForm.View()))
		content.WriteString("\n")
		content.WriteString(style.MutedStyle.Render("tab next field • ←/→ risk level • enter apply • esc cancel"))
	case s.loading && len(s.all) == 0:
		content.WriteString(s.spinner.View() + " Loading wallets...")
	default:
		content.WriteString(s.table.View())
		content.WriteString("\n")
		content.WriteString(s.pagerLine())
	}

	content.WriteString("\n")
	s.helpBar.SetStatus(s.status)
	content.WriteString(s.helpBar.SetWidth(s.width).View())
	return content.String()
}

func (s *WalletsScreen) summaryLine() string {
	f := s.filter
	parts := []string{
		fmt.Sprintf("Showing %d of %d loaded", len(s.visible), len(s.all)),
	}
	if s.tracked > 0 {
		parts = append(parts, fmt.Sprintf("%s tracked", format.Int(s.tracked)))
	}
	parts = append(parts, fmt.Sprintf("ROI ≥ %s%%  Win ≥ %s%%  Trades ≥ %d",
		ftoa(f.Criteria.MinROI), ftoa(f.Criteria.MinWinRate), f.Criteria.MinTrades))
	if f.MinVolume > 0 {
		parts = append(parts, "Volume ≥ "+format.Currency(f.MinVolume))
	}
	if f.MinProfit > 0 {
		parts = append(parts, "Profit ≥ "+format.Currency(f.MinProfit))
	}
	if f.RiskLevel != "" {
		parts = append(parts, "Risk: "+string(f.RiskLevel))
	}
	return style.MutedStyle.Render(strings.Join(parts, " • "))
}

func (s *WalletsScreen) pagerLine() string {
	switch {
	case s.loadingMore:
		return s.spinner.View() + " Loading more wallets..."
	case s.loading:
		return s.spinner.View() + " Reloading..."
	case s.hasMore:
		return style.MutedStyle.Render("m load more")
	default:
		return style.MutedStyle.Render("End of list")
	}
}

// SetSize sets the screen dimensions
func (s *WalletsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.filterForm.SetWidth(width - 8)
	s.table.SetSize(width-2, max(height-10, 6))
}
