package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
)

func walletsBackend() *fakeBackend {
	return &fakeBackend{
		pages: map[int][]domain.Wallet{
			1: {
				{Address: addrA, TotalVolume: 5000, TotalPnLUSD: 900, RiskMetrics: domain.RiskMetrics{RiskRating: domain.RiskLow}},
				{Address: addrB, TotalVolume: 100, TotalPnLUSD: -20, RiskMetrics: domain.RiskMetrics{RiskRating: domain.RiskHigh}},
			},
		},
		stats: &domain.DashboardStats{TotalWallets: 1500},
	}
}

func newWallets(b *fakeBackend) *WalletsScreen {
	s := NewWalletsScreen(newServices(b))
	s.SetSize(160, 40)
	run(s, s.Init())
	return s
}

func TestWalletsClientSideFilterDoesNotRefetch(t *testing.T) {
	b := walletsBackend()
	s := newWallets(b)
	require.Len(t, s.visible, 2)
	assert.Contains(t, s.View(), "1,500 tracked")

	press(s, "f")
	for i := 0; i < 3; i++ {
		press(s, "tab")
	}
	require.Equal(t, "min_volume", s.filterForm.Focused())
	clearInput(s, 3)
	typeInto(s, "1000")
	run(s, press(s, "enter"))

	assert.Len(t, b.queries(), 1)
	require.Len(t, s.visible, 1)
	assert.Equal(t, addrA, s.visible[0].Address)
	assert.Equal(t, 1000.0, s.filter.MinVolume)
}

func TestWalletsRiskFilter(t *testing.T) {
	b := walletsBackend()
	s := newWallets(b)

	press(s, "f")
	for s.filterForm.Focused() != "risk_level" {
		press(s, "tab")
	}
	press(s, "left") // Any -> High
	run(s, press(s, "enter"))

	require.Len(t, s.visible, 1)
	assert.Equal(t, addrB, s.visible[0].Address)
}

func TestWalletsServerFilterReloads(t *testing.T) {
	b := walletsBackend()
	s := newWallets(b)

	press(s, "f")
	press(s, "tab")
	press(s, "tab")
	clearInput(s, 3)
	typeInto(s, "100")
	run(s, press(s, "enter"))

	q := b.queries()
	require.Len(t, q, 2)
	assert.Equal(t, 100, q[1].Filter.MinTrades)
	assert.Equal(t, 1, q[1].Page)
}

func TestWalletsEscClosesPanelBeforeBack(t *testing.T) {
	s := newWallets(walletsBackend())

	press(s, "f")
	assert.True(t, s.CapturesInput())
	press(s, "esc")
	assert.False(t, s.CapturesInput())
}

func TestWalletsEnterOpensDetail(t *testing.T) {
	s := newWallets(walletsBackend())

	press(s, "down")
	msgs := run(s, press(s, "enter"))
	require.Len(t, msgs, 1)
	assert.Equal(t, ui.RouterMsg{To: ui.RouteDetail, Address: addrB}, msgs[0])
}
