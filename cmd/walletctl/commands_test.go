package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/api"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/export"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/format"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
)

const (
	addrA = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	addrB = "So11111111111111111111111111111111111111112"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var pages = map[string]string{
	"1": `[
		{"wallet_address":"` + addrA + `","roi_percentage":150,"win_rate":70,"total_trades":1234,
		 "total_pnl_usd":7500,"total_volume":50000,"risk_metrics":{"risk_rating":"low"},
		 "analytics":{"is_copyworthy":true,"copyworthy_reasons":["High win rate"]}},
		{"wallet_address":"` + addrB + `","roi_percentage":-5,"win_rate":55,"total_trades":30,
		 "total_pnl_usd":-120,"total_volume":800}
	]`,
	"2": `[
		{"wallet_address":"CCCCtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosCCCC","roi_percentage":40,
		 "win_rate":60,"total_trades":25,"total_pnl_usd":900,"total_volume":3000}
	]`,
}

func backendHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallets/top", func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("page")]
		if !ok {
			body = "[]"
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/stats/overview", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_wallets":1200,"total_volume":1234.5,"total_trades":99,
			"average_roi":12.5,"average_winrate":61.25,"top_performers":42}`))
	})
	mux.HandleFunc("/wallets/"+addrA, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"wallet_address":"` + addrA + `","roi_percentage":150,"win_rate":70,
			"total_trades":1234,"token_metrics":[{"symbol":"BONK","num_swaps":3,"total_pnl_usd":42}]}`))
	})
	mux.HandleFunc("/proxy/cielo/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Logf("unexpected request %s", r.URL.Path)
		http.NotFound(w, r)
	})
	return mux
}

func newEnv(t *testing.T) (*env, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(backendHandler(t))
	t.Cleanup(srv.Close)

	log := zaptest.NewLogger(t)
	client := api.NewClient(api.Options{BaseURL: srv.URL, Timeout: 2 * time.Second}, log)
	out := &bytes.Buffer{}
	return &env{
		backend:   client,
		lookup:    service.NewLookup(client, log),
		exporter:  export.NewExporter(log),
		pageSize:  2,
		filter:    domain.DefaultFilter(),
		exportDir: t.TempDir(),
		links:     format.DefaultLinks(),
		out:       out,
		logger:    log,
		now:       time.Now,
	}, out
}

func TestTopFetchesRequestedPages(t *testing.T) {
	e, out := newEnv(t)
	cs := newCommandSet(e.logger)

	require.NoError(t, cs.dispatch(context.Background(), e, "top", []string{"-pages", "3"}))
	s := out.String()
	assert.Contains(t, s, "7xKX...gAsU")
	assert.Contains(t, s, "CCCC...CCCC")
	assert.Contains(t, s, "+150.00%")
	assert.Contains(t, s, "$7,500.00")
	assert.Contains(t, s, "3 of 1,200 tracked wallets")
	assert.NotContains(t, s, "more available")
}

func TestTopSinglePageHintsMore(t *testing.T) {
	e, out := newEnv(t)
	cs := newCommandSet(e.logger)

	require.NoError(t, cs.dispatch(context.Background(), e, "top", nil))
	s := out.String()
	assert.NotContains(t, s, "CCCC...CCCC")
	assert.Contains(t, s, "2 of 1,200 tracked wallets (more available")
}

func TestTopCopyworthyOnly(t *testing.T) {
	e, out := newEnv(t)
	cs := newCommandSet(e.logger)

	require.NoError(t, cs.dispatch(context.Background(), e, "top", []string{"-copyworthy"}))
	s := out.String()
	assert.Contains(t, s, "★ 7xKX...gAsU")
	assert.NotContains(t, s, "So11...1112")
}

func TestTopRejectsInvalidFilter(t *testing.T) {
	e, _ := newEnv(t)
	cs := newCommandSet(e.logger)

	err := cs.dispatch(context.Background(), e, "top", []string{"-min-win-rate", "150"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min win rate")
}

func TestStats(t *testing.T) {
	e, out := newEnv(t)
	cs := newCommandSet(e.logger)

	require.NoError(t, cs.dispatch(context.Background(), e, "stats", nil))
	s := out.String()
	assert.Contains(t, s, "Total Wallets")
	assert.Contains(t, s, "1,200")
	assert.Contains(t, s, "$1,234.50")
	assert.Contains(t, s, "61.25%")
}

func TestLookupKeepsPrimaryWhenLiveFails(t *testing.T) {
	e, out := newEnv(t)
	cs := newCommandSet(e.logger)

	require.NoError(t, cs.dispatch(context.Background(), e, "lookup", []string{"  " + addrA + " "}))
	s := out.String()
	assert.Contains(t, s, "stored analytics (live data unavailable)")
	assert.Contains(t, s, "BONK")
	assert.Contains(t, s, "solscan.io/account/"+addrA)
}

func TestLookupInvalidAddress(t *testing.T) {
	e, _ := newEnv(t)
	cs := newCommandSet(e.logger)

	err := cs.dispatch(context.Background(), e, "lookup", []string{"not-an-address"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidAddress))

	err = cs.dispatch(context.Background(), e, "lookup", nil)
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	e, out := newEnv(t)
	cs := newCommandSet(e.logger)

	require.NoError(t, cs.dispatch(context.Background(), e, "export",
		[]string{"-format", "json", "-pages", "2", "-min-volume", "1000"}))

	path := strings.TrimSpace(strings.TrimPrefix(out.String(), "Exported to"))
	assert.Equal(t, e.exportDir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), addrA)
	assert.NotContains(t, string(data), addrB)
	assert.Contains(t, string(data), `"wallet_count": 2`)
}

func TestExportRejectsUnknownRisk(t *testing.T) {
	e, _ := newEnv(t)
	cs := newCommandSet(e.logger)

	err := cs.dispatch(context.Background(), e, "export", []string{"-risk", "extreme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown risk level")
}

func TestDispatchUnknownAndHelp(t *testing.T) {
	e, out := newEnv(t)
	cs := newCommandSet(e.logger)

	err := cs.dispatch(context.Background(), e, "trade", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "trade"`)

	require.NoError(t, cs.dispatch(context.Background(), e, "top", []string{"-h"}))
	assert.Contains(t, out.String(), "-min-roi")

	var usage bytes.Buffer
	cs.usage(&usage)
	assert.Contains(t, usage.String(), "export")
	assert.Contains(t, usage.String(), "lookup")
}
