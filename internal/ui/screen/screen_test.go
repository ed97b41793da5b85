package screen

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/api"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/router"
)

const (
	addrA = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	addrB = "So11111111111111111111111111111111111111112"
	addrC = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

type fakeBackend struct {
	mu sync.Mutex

	pages     map[int][]domain.Wallet
	stats     *domain.DashboardStats
	statsErr  error
	wallets   map[string]*domain.Wallet
	walletErr error
	live      map[string]*domain.LiveEnvelope
	liveErr   error

	topQueries []domain.TopQuery
	liveCalls  int
}

func (f *fakeBackend) TopWallets(ctx context.Context, q domain.TopQuery) ([]domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topQueries = append(f.topQueries, q)
	return f.pages[q.Page], nil
}

func (f *fakeBackend) GetWallet(ctx context.Context, address string) (*domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.walletErr != nil {
		return nil, f.walletErr
	}
	w, ok := f.wallets[address]
	if !ok {
		return nil, &api.StatusError{Code: http.StatusNotFound}
	}
	cp := *w
	return &cp, nil
}

func (f *fakeBackend) GetLive(ctx context.Context, address string) (*domain.LiveEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.liveCalls++
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	env, ok := f.live[address]
	if !ok {
		return nil, &api.StatusError{Code: http.StatusBadGateway}
	}
	return env, nil
}

func (f *fakeBackend) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	if f.stats == nil {
		return &domain.DashboardStats{}, nil
	}
	return f.stats, nil
}

func (f *fakeBackend) queries() []domain.TopQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TopQuery(nil), f.topQueries...)
}

func (f *fakeBackend) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liveCalls
}

func newServices(b *fakeBackend) *ui.Services {
	svc := ui.NewServices(b, zap.NewNop())
	svc.PageSize = 2
	return svc
}

// collect runs cmd and flattens batches into their messages. Spinner ticks
// are dropped so nothing loops.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if _, ok := msg.(spinner.TickMsg); ok || msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// run executes cmd, feeds every result back into s and follows the
// commands those updates return. It returns the messages s did not consume
// itself, such as navigation.
func run(s router.Screen, cmd tea.Cmd) []tea.Msg {
	var unhandled []tea.Msg
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case ui.RouterMsg:
			unhandled = append(unhandled, msg)
			continue
		}
		_, next := s.Update(msg)
		unhandled = append(unhandled, run(s, next)...)
	}
	return unhandled
}

func press(s router.Screen, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := s.Update(msg)
	return cmd
}

// typeInto and clearInput drop the returned commands: they only blink the
// cursor.
func typeInto(s router.Screen, text string) {
	for _, r := range text {
		press(s, string(r))
	}
}

func clearInput(s router.Screen, n int) {
	for i := 0; i < n; i++ {
		press(s, "backspace")
	}
}
