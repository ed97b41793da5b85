package component

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

func typeText(f *Form, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func clearField(f *Form) {
	for i := 0; i < 10; i++ {
		f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
}

func TestFilterFormRoundTrip(t *testing.T) {
	f := NewFilterForm(domain.DefaultFilter())
	c, err := ReadCriteria(f)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFilter(), c)

	assert.Equal(t, FieldMinROI, f.Focused())
	clearField(f)
	typeText(f, "75.5")
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FieldMinWinRate, f.Focused())

	c, err = ReadCriteria(f)
	require.NoError(t, err)
	assert.Equal(t, 75.5, c.MinROI)
	assert.Equal(t, 50.0, c.MinWinRate)
	assert.Equal(t, 20, c.MinTrades)
}

func TestFilterFormRejectsBadInput(t *testing.T) {
	f := NewFilterForm(domain.DefaultFilter())
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	clearField(f)
	typeText(f, "150")

	_, err := ReadCriteria(f)
	assert.Error(t, err)
	assert.Contains(t, f.View(), "must be between 0 and 100")

	clearField(f)
	typeText(f, "abc")
	_, err = ReadCriteria(f)
	assert.Error(t, err)
	assert.Contains(t, f.View(), "must be a number")
}

func TestExtendedFilterFormRiskSelect(t *testing.T) {
	f := NewExtendedFilterForm(domain.ExtendedFilter{Criteria: domain.DefaultFilter(), MinVolume: 1000})
	for f.Focused() != FieldRiskLevel {
		f.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	f.Update(tea.KeyMsg{Type: tea.KeyRight})
	f.Update(tea.KeyMsg{Type: tea.KeyRight})

	e, err := ReadExtended(f)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskMedium, e.RiskLevel)
	assert.Equal(t, 1000.0, e.MinVolume)
	assert.Equal(t, domain.DefaultFilter(), e.Criteria)

	f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	e, err = ReadExtended(f)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskRating(""), e.RiskLevel)
}

func TestTableScrollsWithSelection(t *testing.T) {
	tbl := NewTable().
		AddColumn("Symbol", 10, lipgloss.Left).
		AddColumn("PnL", 0, lipgloss.Right).
		SetShowBorder(false).
		SetSize(40, 5) // header + separator + 3 rows

	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{string(rune('A' + i)), "1"}
	}
	tbl.SetRows(rows)

	view := tbl.View()
	assert.Contains(t, view, "A")
	assert.NotContains(t, view, "D ")

	for i := 0; i < 5; i++ {
		tbl.MoveDown()
	}
	assert.Equal(t, 5, tbl.GetSelectedRow())
	view = tbl.View()
	assert.Contains(t, view, "F")
	assert.NotContains(t, view, "A ")

	tbl.SetRows(rows[:2])
	assert.Equal(t, 1, tbl.GetSelectedRow())
}

func TestTableEmptyAndTruncation(t *testing.T) {
	tbl := NewTable().AddColumn("Message", 8, lipgloss.Left).SetEmptyText("No log entries")
	assert.Contains(t, tbl.View(), "No log entries")

	tbl.SetRows([][]string{{"ünïcödé message"}})
	assert.Contains(t, tbl.View(), "…")
}

func TestSpark(t *testing.T) {
	assert.Equal(t, "▁█", Spark([]float64{1, 2}))
	assert.Equal(t, "▄▄▄", Spark([]float64{5, 5, 5}))
	assert.Equal(t, "", Spark(nil))

	s := NewSparkline(3).SetData([]float64{100, 1, 2, 3})
	assert.Equal(t, "↗", s.Trend())
	assert.Contains(t, s.View(), "▁▄█")
}

func TestGaugeClamps(t *testing.T) {
	v := NewGauge(10).SetValue(150).View()
	assert.Equal(t, 10, strings.Count(v, "█"))
	v = NewGauge(10).SetValue(-5).View()
	assert.Equal(t, 0, strings.Count(v, "█"))
}

func TestGuideSteps(t *testing.T) {
	g := NewGuide(DefaultGuideSteps(), false)
	require.True(t, g.Visible())
	assert.Contains(t, g.View(), "Welcome to CopyTrade Pro!")

	g.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, g.Step())

	g.Update(tea.KeyMsg{Type: tea.KeyRight})
	g.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, g.Step())
	assert.Contains(t, g.View(), "Get Started")

	_, cmd := g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, GuideClosedMsg{}, cmd())
	assert.False(t, g.Visible())
	assert.Contains(t, g.View(), "Press g")

	g.Maximize()
	assert.True(t, g.Visible())
	assert.Equal(t, 2, g.Step())
}

func TestWalletCardRender(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	card := NewWalletCard().SetWidth(120).SetClock(func() time.Time { return now })
	w := domain.Wallet{
		Address:       "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		ROIPercentage: 150,
		WinRate:       70,
		TotalTrades:   1234,
		TotalPnLUSD:   7500,
		LastTradeTime: now.Add(-2 * time.Hour),
		LastUpdated:   now.Add(-45 * time.Second),
		TotalPnL24h:   domain.Float(-12.5),
		Analytics: &domain.Analytics{
			IsCopyworthy:      true,
			AvgHoldTimeHours:  30,
			CopyworthyReasons: []string{"High win rate"},
			RiskMetrics:       domain.AnalyticsRisk{RiskRating: domain.RiskLow},
		},
	}

	collapsed := card.Render(w, CardStatus{})
	assert.Contains(t, collapsed, "7xKX...gAsU")
	assert.Contains(t, collapsed, "+150.00%")
	assert.Contains(t, collapsed, "1,234")
	assert.Contains(t, collapsed, "$7,500.00")
	assert.Contains(t, collapsed, "Low")
	assert.Contains(t, collapsed, "2h ago")
	assert.Contains(t, collapsed, "Copyworthy")
	assert.NotContains(t, collapsed, "Avg Hold")

	expanded := card.Render(w, CardStatus{Expanded: true})
	assert.Contains(t, expanded, "1.3d")
	assert.Contains(t, expanded, "-$12.50")
	assert.Contains(t, expanded, "High win rate")
	assert.Contains(t, expanded, "45 seconds ago")

	failed := card.Render(w, CardStatus{Expanded: true, Err: errors.New("boom")})
	assert.Contains(t, failed, "Live data unavailable")
	assert.Contains(t, card.Render(w, CardStatus{Expanded: true, Refreshing: true}), "Refreshing")
}

func TestStatsHeaderPlaceholders(t *testing.T) {
	h := NewStatsHeader().SetWidth(200)
	assert.Contains(t, h.View(), "Total Wallets")

	h.SetStats(&domain.DashboardStats{
		TotalWallets:  1200,
		TotalVolume:   1234.5,
		TopPerformers: 42,
		AvgWinRate:    61.25,
		Change:        domain.StatsChange{Wallets: 5},
	})
	v := h.View()
	assert.Contains(t, v, "1,200")
	assert.Contains(t, v, "$1,234.50")
	assert.Contains(t, v, "42")
	assert.Contains(t, v, "+5.0%")
}

func TestStatsHeaderWinRateAndTopPerformerDeltas(t *testing.T) {
	h := NewStatsHeader().SetWidth(200)
	h.SetStats(&domain.DashboardStats{
		AvgWinRate:    61.25,
		TopPerformers: 42,
		Change:        domain.StatsChange{WinRate: 2.5, TopPerformers: -3},
	})
	v := h.View()
	assert.Contains(t, v, "+2.5%")
	assert.Contains(t, v, "-3.0%")
}
