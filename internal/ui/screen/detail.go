package screen

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

type detailLoadedMsg struct {
	seq     uint64
	result  *service.SearchResult
	err     error
	refresh bool
}

// DetailScreen shows one stored wallet: performance, the daily PnL chart,
// risk and scores, and the per-token breakdown.
type DetailScreen struct {
	closable
	width   int
	height  int
	keyMap  ui.KeyMap
	svc     *ui.Services
	address string
	now     func() time.Time

	helpBar   *component.HelpBar
	spinner   spinner.Model
	sparkline *component.Sparkline
	tokens    *component.Table
	scores    map[string]*component.Gauge

	seq        uint64
	result     *service.SearchResult
	err        error
	loading    bool
	refreshing bool
	refreshErr error
	timeFrame  domain.TimeFrame
	showLinks  bool
}

// NewDetailScreen creates the detail screen for address
func NewDetailScreen(svc *ui.Services, address string) *DetailScreen {
	keyMap := ui.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.InfoStyle

	tokens := component.NewTable().
		AddColumn("Token", 12, lipgloss.Left).
		AddColumn("Swaps", 7, lipgloss.Right).
		AddColumn("Bought", 14, lipgloss.Right).
		AddColumn("Sold", 14, lipgloss.Right).
		AddColumn("PnL", 14, lipgloss.Right).
		AddColumn("ROI", 11, lipgloss.Right).
		AddColumn("Last Trade", 0, lipgloss.Left).
		SetEmptyText("No token activity")

	scores := make(map[string]*component.Gauge)
	for _, name := range scoreNames {
		scores[name] = component.NewGauge(20)
	}

	return &DetailScreen{
		closable:  newClosable(),
		keyMap:    keyMap,
		svc:       svc,
		address:   address,
		now:       time.Now,
		helpBar:   component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteDetail)),
		spinner:   sp,
		sparkline: component.NewSparkline(60).ShowText(true),
		tokens:    tokens,
		scores:    scores,
		timeFrame: domain.TimeFrame30D,
	}
}

var scoreNames = []string{"Total", "ROI", "Volume", "Risk", "Consistency"}

// Init loads the wallet
func (s *DetailScreen) Init() tea.Cmd {
	s.seq++
	seq, ctx := s.seq, s.ctx
	s.loading = true
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := s.svc.Lookup.Detail(ctx, s.address)
		return detailLoadedMsg{seq: seq, result: res, err: err}
	})
}

func (s *DetailScreen) refresh() tea.Cmd {
	if s.result == nil || s.loading || s.refreshing {
		return nil
	}
	seq, ctx, prev := s.seq, s.ctx, *s.result
	s.refreshing = true
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := s.svc.Lookup.Refresh(ctx, prev)
		return detailLoadedMsg{seq: seq, result: res, err: err, refresh: true}
	})
}

// Update handles screen updates
func (s *DetailScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit
		case key.Matches(msg, s.keyMap.Refresh):
			return s, s.refresh()
		case key.Matches(msg, s.keyMap.TimeFrame):
			s.timeFrame = s.timeFrame.Next()
			s.updateChart()
		case key.Matches(msg, s.keyMap.Links):
			s.showLinks = !s.showLinks
		case key.Matches(msg, s.keyMap.Up):
			s.tokens.MoveUp()
		case key.Matches(msg, s.keyMap.Down):
			s.tokens.MoveDown()
		}

	case spinner.TickMsg:
		if !s.loading && !s.refreshing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case detailLoadedMsg:
		if msg.seq != s.seq || ignorable(msg.err) {
			return s, nil
		}
		if msg.refresh {
			s.refreshing = false
			s.refreshErr = msg.err
		} else {
			s.loading = false
			s.err = msg.err
		}
		if msg.result != nil {
			s.result = msg.result
			s.updateData()
		}
	}
	return s, nil
}

func (s *DetailScreen) updateData() {
	w := s.result.Wallet
	now := s.now()

	tokens := make([]domain.TokenMetric, len(w.TokenMetrics))
	copy(tokens, w.TokenMetrics)
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].TotalPnLUSD > tokens[j].TotalPnLUSD
	})
	rows := make([][]string, len(tokens))
	for i, t := range tokens {
		rows[i] = []string{
			format.Placeholder(t.Symbol),
			format.Int(t.NumSwaps),
			format.Currency(t.TotalBuyUSD),
			format.Currency(t.TotalSellUSD),
			format.Currency(t.TotalPnLUSD),
			format.Signed(t.ROIPercentage, 2),
			format.TimeAgoShort(t.LastTradeTime, now),
		}
	}
	s.tokens.SetRows(rows)
	for i, t := range tokens {
		s.tokens.SetRowStyle(i, style.PnL(t.TotalPnLUSD))
	}

	s.scores["Total"].SetValue(w.Scores.Total)
	s.scores["ROI"].SetValue(w.Scores.ROI)
	s.scores["Volume"].SetValue(w.Scores.Volume)
	s.scores["Risk"].SetValue(w.Scores.Risk)
	s.scores["Consistency"].SetValue(w.Scores.Consistency)

	s.updateChart()
}

func (s *DetailScreen) updateChart() {
	if s.result == nil {
		return
	}
	s.sparkline.SetData(PnLWindow(s.result.Wallet.DailyPnL, s.timeFrame, s.now()))
}

// PnLWindow returns the daily PnL values inside the time frame, oldest
// first.
func PnLWindow(series []domain.DailyPnL, tf domain.TimeFrame, now time.Time) []float64 {
	points := make([]domain.DailyPnL, len(series))
	copy(points, series)
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	var cutoff time.Time
	if days := tf.Days(); days > 0 {
		cutoff = now.AddDate(0, 0, -days)
	}
	out := make([]float64, 0, len(points))
	for _, p := range points {
		if !cutoff.IsZero() && p.Date.Before(cutoff) {
			continue
		}
		out = append(out, p.PnLUSD)
	}
	return out
}

// View renders the detail screen
func (s *DetailScreen) View() string {
	var content strings.Builder
	content.WriteString(style.TitleStyle.Render("Wallet " + format.ShortAddress(s.address)))
	content.WriteString("\n")

	switch {
	case s.loading:
		content.WriteString(s.spinner.View() + " Loading wallet details...")
	case s.err != nil:
		content.WriteString(style.ErrorStyle.Render("⚠ " + s.err.Error()))
	case s.result != nil:
		content.WriteString(s.renderBody())
	}

	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())
	return content.String()
}

func (s *DetailScreen) renderBody() string {
	w := s.result.Wallet
	now := s.now()

	kv := func(label, value string) string {
		return style.LabelStyle.Render(label+": ") + value
	}

	address := w.Address
	if w.Copyworthy() {
		address += "  " + style.CopyworthyStyle.Render("★ Copyworthy")
	}
	updated := "Updated " + format.TimeAgo(w.LastUpdated, now)
	switch {
	case s.refreshing:
		updated = s.spinner.View() + " Refreshing live data..."
	case s.refreshErr != nil:
		updated = style.WarningStyle.Render("Refresh failed, showing previous data")
	case s.result.Live == nil:
		updated += style.MutedStyle.Render(" (live data unavailable)")
	}

	performance := style.PanelStyle.Render(strings.Join([]string{
		style.SubHeaderStyle.Render("Performance"),
		kv("ROI", style.PnL(w.ROIPercentage).Render(format.Signed(w.ROIPercentage, 2))),
		kv("Total PnL", style.PnL(w.TotalPnLUSD).Render(format.Currency(w.TotalPnLUSD))),
		kv("Win Rate", format.Percent(w.WinRate, 1)),
		kv("Trades", format.Int(w.TotalTrades)),
		kv("Volume", format.Currency(w.TotalVolume)),
		kv("24h Volume", optionalCurrency(w.TotalVolume24h)),
		kv("24h PnL", optionalCurrency(w.TotalPnL24h)),
		kv("Avg Trade", format.Currency(w.AvgTradeSize)),
		kv("Last Trade", format.TimeAgo(w.LastTradeTime, now)),
	}, "\n"))

	risk := w.EffectiveRisk()
	riskLines := []string{
		style.SubHeaderStyle.Render("Risk"),
		kv("Rating", lipgloss.NewStyle().Foreground(format.RiskColor(risk)).Render(string(risk))),
		kv("Max Drawdown", format.Percent(w.MaxDrawdown, 2)),
		kv("Sharpe", format.Number(w.RiskMetrics.SharpeRatio)),
		kv("Sortino", format.Number(w.RiskMetrics.SortinoRatio)),
		kv("Volatility", format.Number(w.RiskMetrics.Volatility)),
	}
	if a := w.Analytics; a != nil {
		riskLines = append(riskLines,
			kv("Avg Hold", format.HoldTime(a.AvgHoldTimeHours)),
			kv("Swaps/Token", format.Number(a.AvgSwapsPerToken)),
			kv("Avg Buy", format.Currency(a.AvgBuySize)))
	}
	riskPanel := style.PanelStyle.Render(strings.Join(riskLines, "\n"))

	scoreLines := []string{style.SubHeaderStyle.Render("Scores")}
	for _, name := range scoreNames {
		scoreLines = append(scoreLines, fmt.Sprintf("%-12s %s", name, s.scores[name].View()))
	}
	scorePanel := style.PanelStyle.Render(strings.Join(scoreLines, "\n"))

	chart := strings.Join([]string{
		style.SubHeaderStyle.Render(fmt.Sprintf("Daily PnL (%s)", s.timeFrame)),
		s.chartView(),
	}, "\n")

	parts := []string{
		address,
		style.MutedStyle.Render(updated),
		style.AdaptiveJoinHorizontal(s.width, performance, riskPanel, scorePanel),
		chart,
	}
	if a := w.Analytics; a != nil && len(a.CopyworthyReasons) > 0 {
		reasons := make([]string, len(a.CopyworthyReasons))
		for i, r := range a.CopyworthyReasons {
			reasons[i] = style.SuccessStyle.Render("✓ ") + r
		}
		parts = append(parts, strings.Join(reasons, "\n"))
	}
	parts = append(parts, style.SubHeaderStyle.Render("Tokens"), s.tokens.View())
	if s.showLinks {
		parts = append(parts, s.linksView(w))
	}
	return strings.Join(parts, "\n")
}

func (s *DetailScreen) chartView() string {
	if len(PnLWindow(s.result.Wallet.DailyPnL, s.timeFrame, s.now())) == 0 {
		return style.MutedStyle.Render("No PnL history for this period")
	}
	return s.sparkline.View()
}

func (s *DetailScreen) linksView(w domain.Wallet) string {
	lines := []string{
		style.SubHeaderStyle.Render("Links"),
		"Explorer: " + s.svc.Links.Explorer(w.Address),
	}
	n := min(len(w.TokenMetrics), 5)
	for _, t := range w.TokenMetrics[:n] {
		if t.TokenAddress == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s chart: %s", format.Placeholder(t.Symbol), s.svc.Links.Chart(t.TokenAddress)))
	}
	return style.PanelStyle.Render(strings.Join(lines, "\n"))
}

func optionalCurrency(v *float64) string {
	if v == nil {
		return format.Placeholder("")
	}
	return format.Currency(*v)
}

// SetSize sets the screen dimensions
func (s *DetailScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.sparkline.SetWidth(max(width-20, 10))
	s.tokens.SetSize(width-2, max(height-28, 6))
}
