package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/export"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/state"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// DashboardScreen is the landing screen: overview stats, the filter panel
// and the top wallets as expandable cards.
type DashboardScreen struct {
	closable
	width  int
	height int
	keyMap ui.KeyMap
	svc    *ui.Services
	dash   *service.Dashboard
	logger *zap.Logger

	// UI components
	helpBar    *component.HelpBar
	stats      *component.StatsHeader
	filterForm *component.Form
	guide      *component.Guide
	list       *cardList
	spinner    spinner.Model
	findInput  textinput.Model

	// State
	gen         uint64
	keepGen     uint64
	criteria    domain.FilterCriteria
	all         []domain.Wallet
	term        string
	loading     bool
	loadFailed  bool
	showFilters bool
	finding     bool
	status      string

	titleStyle lipgloss.Style
}

// NewDashboardScreen creates the dashboard
func NewDashboardScreen(svc *ui.Services) *DashboardScreen {
	keyMap := ui.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.InfoStyle

	find := textinput.New()
	find.Placeholder = "Search by wallet address..."
	find.Prompt = "/ "
	find.CharLimit = 64

	s := &DashboardScreen{
		closable:   newClosable(),
		keyMap:     keyMap,
		svc:        svc,
		dash:       svc.NewDashboard(),
		logger:     svc.Logger.Named("dashboard_screen"),
		helpBar:    component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteDashboard)),
		stats:      component.NewStatsHeader(),
		filterForm: component.NewFilterForm(svc.DefaultFilter),
		guide:      component.NewGuide(component.DefaultGuideSteps(), svc.GuideSeen()),
		list:       newCardList(state.NewCardStore(svc.Logger)),
		spinner:    sp,
		findInput:  find,
		criteria:   svc.DefaultFilter,
		titleStyle: style.TitleStyle,
	}
	s.list.onRefresh = s.reloadKeepingCards
	return s
}

// Init loads page 1 and the stats
func (s *DashboardScreen) Init() tea.Cmd {
	return s.reload()
}

func (s *DashboardScreen) reload() tea.Cmd {
	s.gen++
	s.loading = true
	return tea.Batch(s.spinner.Tick, loadCmd(s.ctx, s.dash, s.gen, s.criteria))
}

// reloadKeepingCards reloads page 1 and the stats without dropping the
// expanded cards and their live data.
func (s *DashboardScreen) reloadKeepingCards() tea.Cmd {
	cmd := s.reload()
	s.keepGen = s.gen
	return cmd
}

// CapturesInput is true while a text field or overlay owns the keyboard.
func (s *DashboardScreen) CapturesInput() bool {
	return s.showFilters || s.finding || s.guide.Visible()
}

// Update handles screen updates
func (s *DashboardScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s.handleKey(msg)

	case spinner.TickMsg:
		if !s.loading && !s.list.loadingMore {
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
		if msg.gen != s.keepGen {
			s.list.store.Clear()
		}
		s.all = msg.snap.Wallets
		s.stats.SetStats(&msg.snap.Stats)
		s.applyTerm(msg.snap.HasMore)
		return s, nil

	case pageLoadedMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.list.loadingMore = false
		if msg.err != nil {
			// already logged by the pager; the list stays as it was
			return s, nil
		}
		s.all = msg.wallets
		s.applyTerm(msg.hasMore)
		s.list.sweep(s.logger)
		return s, nil

	case liveLoadedMsg:
		ok, cmd := s.list.HandleLive(msg)
		if ok {
			s.status = ""
		}
		return s, cmd

	case exportDoneMsg:
		s.status = msg.status()
		return s, nil

	case component.GuideClosedMsg:
		return s, func() tea.Msg {
			s.svc.MarkGuideSeen()
			return ui.StatusMsg{Message: "Guide hidden. Press g to reopen it."}
		}

	case ui.StatusMsg:
		s.status = msg.Message
		return s, nil
	}
	return s, nil
}

func (s *DashboardScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	if s.guide.Visible() {
		var cmd tea.Cmd
		s.guide, cmd = s.guide.Update(msg)
		return s, cmd
	}
	if s.showFilters {
		return s.handleFilterKey(msg)
	}
	if s.finding {
		return s.handleFindKey(msg)
	}

	switch {
	case key.Matches(msg, s.keyMap.Quit):
		return s, tea.Quit

	case key.Matches(msg, s.keyMap.Up):
		s.list.MoveUp()

	case key.Matches(msg, s.keyMap.Down):
		if s.list.MoveDown() {
			return s, s.loadMore()
		}

	case key.Matches(msg, s.keyMap.LoadMore):
		return s, s.loadMore()

	case key.Matches(msg, s.keyMap.Expand):
		return s, s.list.Toggle(s.ctx, s.svc.Lookup)

	case key.Matches(msg, s.keyMap.Refresh):
		return s, s.list.Refresh(s.ctx, s.svc.Lookup)

	case key.Matches(msg, s.keyMap.Enter):
		if w, ok := s.list.Selected(); ok {
			return s, navigate(ui.RouteDetail, w.Address)
		}

	case key.Matches(msg, s.keyMap.Reload):
		return s, s.reload()

	case key.Matches(msg, s.keyMap.Filter):
		s.showFilters = true
		s.filterForm = component.NewFilterForm(s.criteria).SetWidth(s.width - 8)

	case key.Matches(msg, s.keyMap.Find):
		s.finding = true
		s.findInput.SetValue(s.term)
		return s, s.findInput.Focus()

	case key.Matches(msg, s.keyMap.Export):
		return s, exportCmd(s.svc, s.list.Visible(), export.Options{Format: export.FormatCSV, Label: "dashboard"})

	case key.Matches(msg, s.keyMap.Guide):
		s.guide.Maximize()

	case key.Matches(msg, s.keyMap.Wallets):
		return s, navigate(ui.RouteWallets, "")

	case key.Matches(msg, s.keyMap.Search):
		return s, navigate(ui.RouteSearch, "")

	case key.Matches(msg, s.keyMap.Logs):
		return s, navigate(ui.RouteLogs, "")
	}
	return s, nil
}

func (s *DashboardScreen) handleFilterKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.showFilters = false
		return s, nil
	case "enter":
		criteria, err := component.ReadCriteria(s.filterForm)
		if err != nil {
			return s, nil
		}
		s.showFilters = false
		if criteria == s.criteria {
			return s, nil
		}
		s.logger.Info("Filters changed",
			zap.Float64("min_roi", criteria.MinROI),
			zap.Float64("min_win_rate", criteria.MinWinRate),
			zap.Int("min_trades", criteria.MinTrades))
		s.criteria = criteria
		return s, s.reload()
	}
	var cmd tea.Cmd
	s.filterForm, cmd = s.filterForm.Update(msg)
	return s, cmd
}

func (s *DashboardScreen) handleFindKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.finding = false
		s.findInput.Blur()
		s.term = ""
		s.applyTerm(s.list.hasMore)
		return s, nil
	case "enter":
		s.finding = false
		s.findInput.Blur()
		return s, nil
	}
	var cmd tea.Cmd
	s.findInput, cmd = s.findInput.Update(msg)
	s.term = s.findInput.Value()
	s.applyTerm(s.list.hasMore)
	return s, cmd
}

func (s *DashboardScreen) loadMore() tea.Cmd {
	if s.loading || s.list.loadingMore || !s.list.hasMore {
		return nil
	}
	s.list.loadingMore = true
	return tea.Batch(s.spinner.Tick, loadMoreCmd(s.ctx, s.dash, s.gen))
}

// applyTerm narrows the loaded wallets by the address search term.
func (s *DashboardScreen) applyTerm(hasMore bool) {
	s.list.SetWallets(domain.FilterByAddress(s.all, s.term), hasMore)
}

// View renders the dashboard
func (s *DashboardScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(s.titleStyle.Render("CopyTrade Pro · Top Wallets"))
	content.WriteString("\n")
	content.WriteString(s.stats.View())
	content.WriteString("\n")

	if s.loadFailed {
		content.WriteString(style.BannerStyle.Render(service.LoadFailedMessage))
		content.WriteString("\n")
	}

	if s.guide.Visible() {
		content.WriteString(s.guide.View())
		content.WriteString("\n")
		content.WriteString(s.footer())
		return content.String()
	}

	content.WriteString(s.filterLine())
	content.WriteString("\n")

	switch {
	case s.showFilters:
		content.WriteString(style.ActivePanelStyle.Render(s.filterForm.View()))
		content.WriteString("\n")
		content.WriteString(style.MutedStyle.Render("enter apply • esc cancel"))
	case s.loading && len(s.all) == 0:
		content.WriteString(s.spinner.View() + " Loading wallets...")
	default:
		if s.finding {
			content.WriteString(s.findInput.View())
			content.WriteString("\n")
		}
		content.WriteString(s.list.View())
	}
	content.WriteString("\n")
	content.WriteString(s.footer())
	return content.String()
}

func (s *DashboardScreen) filterLine() string {
	parts := []string{
		"ROI ≥ " + ftoa(s.criteria.MinROI) + "%",
		"Win ≥ " + ftoa(s.criteria.MinWinRate) + "%",
		"Trades ≥ " + itoa(s.criteria.MinTrades),
	}
	if s.term != "" {
		parts = append(parts, "address ~ \""+s.term+"\"")
	}
	line := style.LabelStyle.Render("Filters: ") + style.MutedStyle.Render(strings.Join(parts, "  "))
	if s.loading && len(s.all) > 0 {
		line += "  " + s.spinner.View()
	}
	return line
}

func (s *DashboardScreen) footer() string {
	s.helpBar.SetStatus(s.status)
	lines := []string{}
	if !s.guide.Visible() {
		lines = append(lines, s.guide.View())
	}
	lines = append(lines,
		component.SocialFooter(s.svc.Social, s.width),
		s.helpBar.SetWidth(s.width).View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize sets the screen dimensions
func (s *DashboardScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.stats.SetWidth(width)
	s.guide.SetWidth(width)
	s.filterForm.SetWidth(width - 8)
	s.findInput.Width = max(width-10, 20)

	// title, stats (up to two card rows), filter line, footer
	reserved := 16
	if width < 132 {
		reserved += 4
	}
	s.list.SetSize(width, max(height-reserved, 5))
}
