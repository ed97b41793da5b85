package screen

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/export"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/pager"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
)

// walletsLoadedMsg is the joined result of a page 1 + stats load.
type walletsLoadedMsg struct {
	gen  uint64
	snap *service.Snapshot
	err  error
}

// pageLoadedMsg is the result of a LoadMore.
type pageLoadedMsg struct {
	gen     uint64
	wallets []domain.Wallet
	hasMore bool
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}

func navigate(to ui.Route, address string) tea.Cmd {
	return func() tea.Msg {
		return ui.RouterMsg{To: to, Address: address}
	}
}

func loadCmd(ctx context.Context, dash *service.Dashboard, gen uint64, criteria domain.FilterCriteria) tea.Cmd {
	return func() tea.Msg {
		snap, err := dash.Load(ctx, criteria)
		return walletsLoadedMsg{gen: gen, snap: snap, err: err}
	}
}

func loadMoreCmd(ctx context.Context, dash *service.Dashboard, gen uint64) tea.Cmd {
	return func() tea.Msg {
		wallets, err := dash.LoadMore(ctx)
		return pageLoadedMsg{gen: gen, wallets: wallets, hasMore: dash.Pager().HasMore(), err: err}
	}
}

func exportCmd(svc *ui.Services, wallets []domain.Wallet, opts export.Options) tea.Cmd {
	return func() tea.Msg {
		if opts.OutputDir == "" {
			opts.OutputDir = svc.ExportDir
		}
		path, err := svc.Exporter.ExportWallets(wallets, opts)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m exportDoneMsg) status() string {
	if m.err != nil {
		return fmt.Sprintf("Export failed: %v", m.err)
	}
	return "Exported to " + m.path
}

// ignorable reports results that must not touch the screen: superseded,
// cancelled, or pagination refusals.
func ignorable(err error) bool {
	return errors.Is(err, pager.ErrStale) ||
		errors.Is(err, pager.ErrInFlight) ||
		errors.Is(err, pager.ErrExhausted) ||
		errors.Is(err, context.Canceled)
}

// closable is embedded by screens whose requests are bound to their lifetime.
type closable struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newClosable() closable {
	ctx, cancel := context.WithCancel(context.Background())
	return closable{ctx: ctx, cancel: cancel}
}

// Close cancels the screen's in-flight requests.
func (c closable) Close() {
	c.cancel()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func itoa(v int) string { return strconv.Itoa(v) }
