package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui/style"
)

type searchDoneMsg struct {
	seq     uint64
	result  *service.SearchResult
	err     error
	refresh bool
}

// SearchScreen looks a wallet up by address in the stored data and falls
// back to the live source.
type SearchScreen struct {
	closable
	width  int
	height int
	keyMap ui.KeyMap
	svc    *ui.Services

	helpBar *component.HelpBar
	input   textinput.Model
	spinner spinner.Model
	card    *component.WalletCard

	seq        uint64
	result     *service.SearchResult
	err        error
	searching  bool
	refreshing bool
	refreshErr error
}

// NewSearchScreen creates the search screen
func NewSearchScreen(svc *ui.Services) *SearchScreen {
	keyMap := ui.DefaultKeyMap()

	ti := textinput.New()
	ti.Placeholder = "Enter wallet address..."
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = style.InfoStyle

	return &SearchScreen{
		closable: newClosable(),
		keyMap:   keyMap,
		svc:      svc,
		helpBar:  component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteSearch)),
		input:    ti,
		spinner:  sp,
		card:     component.NewWalletCard(),
	}
}

// Init focuses the input
func (s *SearchScreen) Init() tea.Cmd {
	return s.input.Focus()
}

// CapturesInput is true while the address field has focus.
func (s *SearchScreen) CapturesInput() bool {
	return s.input.Focused()
}

func (s *SearchScreen) search() tea.Cmd {
	s.seq++
	seq, ctx, input := s.seq, s.ctx, s.input.Value()
	s.searching = true
	s.err = nil
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := s.svc.Lookup.Search(ctx, input)
		return searchDoneMsg{seq: seq, result: res, err: err}
	})
}

func (s *SearchScreen) refresh() tea.Cmd {
	if s.result == nil || s.refreshing || s.searching {
		return nil
	}
	seq, ctx, prev := s.seq, s.ctx, *s.result
	s.refreshing = true
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := s.svc.Lookup.Refresh(ctx, prev)
		return searchDoneMsg{seq: seq, result: res, err: err, refresh: true}
	})
}

// Update handles screen updates
func (s *SearchScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.input.Focused() {
			switch msg.String() {
			case "enter":
				s.input.Blur()
				return s, s.search()
			case "esc":
				s.input.Blur()
				return s, nil
			}
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}

		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit
		case key.Matches(msg, s.keyMap.Find), key.Matches(msg, s.keyMap.Search):
			return s, s.input.Focus()
		case key.Matches(msg, s.keyMap.Refresh):
			return s, s.refresh()
		case key.Matches(msg, s.keyMap.Enter):
			if s.result != nil && s.result.Source == service.SourcePrimary {
				return s, navigate(ui.RouteDetail, s.result.Wallet.Address)
			}
		}

	case spinner.TickMsg:
		if !s.searching && !s.refreshing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case searchDoneMsg:
		if msg.seq != s.seq || ignorable(msg.err) {
			return s, nil
		}
		if msg.refresh {
			s.refreshing = false
			s.refreshErr = msg.err
			if msg.result != nil {
				s.result = msg.result
			}
			return s, nil
		}
		s.searching = false
		s.result = msg.result
		s.err = msg.err
		s.refreshErr = nil
		if msg.err != nil {
			return s, s.input.Focus()
		}
	}
	return s, nil
}

// View renders the search screen
func (s *SearchScreen) View() string {
	var content strings.Builder
	content.WriteString(style.TitleStyle.Render("Search Wallet"))
	content.WriteString("\n")
	content.WriteString(s.input.View())
	content.WriteString("\n\n")

	switch {
	case s.searching:
		content.WriteString(s.spinner.View() + " Searching...")
	case s.err != nil:
		content.WriteString(style.ErrorStyle.Render(searchErrorText(s.err)))
	case s.result != nil:
		content.WriteString(s.renderResult())
	default:
		content.WriteString(style.MutedStyle.Render("Enter a Solana wallet address and press enter."))
	}

	content.WriteString("\n\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())
	return content.String()
}

func (s *SearchScreen) renderResult() string {
	r := s.result
	source := "Source: stored analytics"
	if r.Source == service.SourceLive {
		source = "Source: live data (wallet not tracked yet)"
	} else if r.Live == nil {
		source += " (live data unavailable)"
	}

	card := s.card.Render(r.Wallet, component.CardStatus{
		Expanded:   true,
		Refreshing: s.refreshing,
		HasLive:    r.Live != nil,
		Err:        s.refreshErr,
	})

	lines := []string{style.MutedStyle.Render(source), card}
	if s.refreshErr != nil {
		lines = append(lines, style.WarningStyle.Render("Refresh failed, showing previous data"))
	}
	if r.Source == service.SourcePrimary {
		lines = append(lines, style.MutedStyle.Render("enter open details • r refresh • / new search"))
	} else {
		lines = append(lines, style.MutedStyle.Render("r refresh • / new search"))
	}
	lines = append(lines, style.MutedStyle.Render("Explorer: "+s.svc.Links.Explorer(r.Wallet.Address)))
	return strings.Join(lines, "\n")
}

// searchErrorText keeps the user-facing sentinel messages and prefixes
// anything else.
func searchErrorText(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ":"); i > 0 && strings.HasPrefix(msg, "invalid Solana wallet address") {
		msg = msg[:i]
	}
	return "⚠ " + msg
}

// SetSize sets the screen dimensions
func (s *SearchScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.input.Width = min(max(width-6, 20), 64)
	s.card.SetWidth(width)
	s.helpBar.SetWidth(width)
}
