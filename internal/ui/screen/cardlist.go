package screen

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/state"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

// liveLoadedMsg carries the result of a card's live fetch.
type liveLoadedMsg struct {
	address string
	live    *domain.LiveRecord
	err     error
	refresh bool
}

// fetchLiveCmd loads the live record of one card. refresh marks an explicit
// user refresh rather than the first expansion.
func fetchLiveCmd(ctx context.Context, lookup *service.Lookup, address string, refresh bool) tea.Cmd {
	return func() tea.Msg {
		live, err := lookup.Live(ctx, address)
		return liveLoadedMsg{address: address, live: live, err: err, refresh: refresh}
	}
}

// cardList is the cursor-driven column of wallet cards with a sentinel row
// after the last card. Reaching the sentinel asks for the next page.
type cardList struct {
	store   *state.CardStore
	card    *component.WalletCard
	wallets []domain.Wallet

	cursor int
	offset int
	width  int
	height int

	hasMore     bool
	loadingMore bool
	emptyText   string

	// onRefresh runs after a refreshed card got its live record.
	onRefresh func() tea.Cmd
}

func newCardList(store *state.CardStore) *cardList {
	return &cardList{
		store:     store,
		card:      component.NewWalletCard(),
		emptyText: "No wallets match the current filters.",
	}
}

// staleCardAge is how long a collapsed card keeps its live data.
const staleCardAge = 10 * time.Minute

// sweep drops stale collapsed cards; a later expand fetches them again.
func (l *cardList) sweep(logger *zap.Logger) {
	n := l.store.CleanupStale(staleCardAge)
	if n == 0 {
		return
	}
	cards, reads, writes := l.store.GetStats()
	logger.Debug("Dropped stale wallet cards",
		zap.Int("dropped", n),
		zap.Uint64("cards", cards),
		zap.Uint64("reads", reads),
		zap.Uint64("writes", writes))
}

func (l *cardList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.card.SetWidth(width)
}

// SetWallets replaces the list and clamps the cursor.
func (l *cardList) SetWallets(wallets []domain.Wallet, hasMore bool) {
	l.wallets = wallets
	l.hasMore = hasMore
	if l.cursor >= len(wallets) {
		l.cursor = max(len(wallets)-1, 0)
	}
	if l.offset > l.cursor {
		l.offset = l.cursor
	}
}

// Selected returns the wallet under the cursor.
func (l *cardList) Selected() (domain.Wallet, bool) {
	if l.cursor < 0 || l.cursor >= len(l.wallets) {
		return domain.Wallet{}, false
	}
	return l.wallets[l.cursor], true
}

// Visible returns the wallets with live data applied as the cards show them.
func (l *cardList) Visible() []domain.Wallet {
	out := make([]domain.Wallet, len(l.wallets))
	for i, w := range l.wallets {
		out[i], _ = l.store.View(w)
	}
	return out
}

func (l *cardList) Len() int { return len(l.wallets) }

func (l *cardList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown advances the cursor and reports whether it sits on the last
// card while more pages may exist.
func (l *cardList) MoveDown() (atSentinel bool) {
	if l.cursor < len(l.wallets)-1 {
		l.cursor++
	}
	return l.AtSentinel()
}

// AtSentinel reports whether the next page should be requested.
func (l *cardList) AtSentinel() bool {
	return l.hasMore && !l.loadingMore && len(l.wallets) > 0 && l.cursor == len(l.wallets)-1
}

// Toggle expands or collapses the selected card. The first expansion
// returns the live fetch.
func (l *cardList) Toggle(ctx context.Context, lookup *service.Lookup) tea.Cmd {
	w, ok := l.Selected()
	if !ok {
		return nil
	}
	if _, fetch := l.store.Toggle(w.Address); fetch {
		return fetchLiveCmd(ctx, lookup, w.Address, false)
	}
	return nil
}

// Refresh re-fetches the selected card's live record.
func (l *cardList) Refresh(ctx context.Context, lookup *service.Lookup) tea.Cmd {
	w, ok := l.Selected()
	if !ok || !l.store.BeginRefresh(w.Address) {
		return nil
	}
	return fetchLiveCmd(ctx, lookup, w.Address, true)
}

// HandleLive stores a live fetch result and reports success. A successful
// refresh also returns the onRefresh command.
func (l *cardList) HandleLive(msg liveLoadedMsg) (bool, tea.Cmd) {
	if msg.err != nil {
		l.store.SetError(msg.address, msg.err)
		return false, nil
	}
	l.store.SetLive(msg.address, msg.live)
	if msg.refresh && l.onRefresh != nil {
		return true, l.onRefresh()
	}
	return true, nil
}

func (l *cardList) render(i int) string {
	w, c := l.store.View(l.wallets[i])
	return l.card.Render(w, component.CardStatus{
		Selected:   i == l.cursor,
		Expanded:   c.Expanded,
		Refreshing: c.Refreshing,
		HasLive:    c.Fetched(),
		Err:        c.Err,
	})
}

func (l *cardList) sentinel() string {
	switch {
	case l.loadingMore:
		return style.InfoStyle.Render("  Loading more wallets...")
	case l.hasMore:
		return style.MutedStyle.Render("  ↓ more wallets (m to load)")
	default:
		return style.MutedStyle.Render("  End of list")
	}
}

// renderFrom renders cards starting at offset until the height is used up
// and reports whether the cursor card was fully drawn.
func (l *cardList) renderFrom(offset int) (string, bool) {
	var blocks []string
	used, cursorShown := 0, false
	for i := offset; i < len(l.wallets); i++ {
		block := l.render(i)
		h := lipgloss.Height(block)
		if l.height > 0 && used+h > l.height && len(blocks) > 0 {
			break
		}
		blocks = append(blocks, block)
		used += h
		if i == l.cursor {
			cursorShown = true
		}
	}
	if l.height <= 0 || used < l.height {
		blocks = append(blocks, l.sentinel())
	}
	return strings.Join(blocks, "\n"), cursorShown
}

func (l *cardList) View() string {
	if len(l.wallets) == 0 {
		return style.MutedStyle.Render("  " + l.emptyText)
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	for {
		view, shown := l.renderFrom(l.offset)
		if shown || l.offset >= l.cursor {
			return view
		}
		l.offset++
	}
}
