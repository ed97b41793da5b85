package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/logger"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/screen"
)

type emptyBackend struct{}

func (emptyBackend) TopWallets(context.Context, domain.TopQuery) ([]domain.Wallet, error) {
	return nil, nil
}

func (emptyBackend) GetWallet(context.Context, string) (*domain.Wallet, error) {
	return &domain.Wallet{}, nil
}

func (emptyBackend) GetLive(context.Context, string) (*domain.LiveEnvelope, error) {
	return &domain.LiveEnvelope{}, nil
}

func (emptyBackend) Stats(context.Context) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{}, nil
}

func newApp(t *testing.T, withLogs bool) *AppModel {
	t.Helper()
	svc := ui.NewServices(emptyBackend{}, zaptest.NewLogger(t))
	if withLogs {
		buf, err := logger.NewLogBuffer(10, "", zaptest.NewLogger(t))
		require.NoError(t, err)
		svc.Logs = buf
	}
	app := NewAppModel(svc, nil)
	app.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	t.Cleanup(app.Close)
	return app
}

func TestNavigationPushesAndClears(t *testing.T) {
	app := newApp(t, true)

	app.Update(ui.RouterMsg{To: ui.RouteWallets})
	assert.Equal(t, 2, app.router.Depth())
	assert.IsType(t, &screen.WalletsScreen{}, app.router.Current())

	app.Update(ui.RouterMsg{To: ui.RouteDetail, Address: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"})
	assert.Equal(t, 3, app.router.Depth())
	assert.IsType(t, &screen.DetailScreen{}, app.router.Current())

	app.Update(ui.RouterMsg{To: ui.RouteDashboard})
	assert.Equal(t, 1, app.router.Depth())
	assert.IsType(t, &screen.DashboardScreen{}, app.router.Current())
}

func TestDetailWithoutAddressIsIgnored(t *testing.T) {
	app := newApp(t, true)
	_, cmd := app.Update(ui.RouterMsg{To: ui.RouteDetail})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, app.router.Depth())
}

func TestLogsRouteNotStacked(t *testing.T) {
	app := newApp(t, true)
	app.Update(ui.RouterMsg{To: ui.RouteLogs})
	app.Update(ui.RouterMsg{To: ui.RouteLogs})
	assert.Equal(t, 2, app.router.Depth())
}

func TestLogsRouteWithoutBuffer(t *testing.T) {
	app := newApp(t, false)
	_, cmd := app.Update(ui.RouterMsg{To: ui.RouteLogs})
	require.NotNil(t, cmd)
	assert.Equal(t, ui.StatusMsg{Message: "Log buffer is not available"}, cmd())
	assert.Equal(t, 1, app.router.Depth())
}

func TestErrorBadge(t *testing.T) {
	app := newApp(t, true)
	app.Update(ui.LogMsg{Level: zapcore.WarnLevel, Message: "slow"})
	assert.NotContains(t, app.View(), "error(s) logged")

	app.Update(ui.LogMsg{Level: zapcore.ErrorLevel, Message: "Error fetching data"})
	assert.Contains(t, app.View(), "1 error(s) logged")

	app.Update(ui.RouterMsg{To: ui.RouteLogs})
	assert.NotContains(t, app.View(), "error(s) logged")
}

func TestCtrlCQuits(t *testing.T) {
	app := newApp(t, true)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewBeforeSize(t *testing.T) {
	svc := ui.NewServices(emptyBackend{}, zaptest.NewLogger(t))
	app := NewAppModel(svc, nil)
	defer app.Close()
	assert.Equal(t, "Initializing...", app.View())
}
