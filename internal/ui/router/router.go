package router

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Closer is implemented by screens owning resources (a request context)
// that must be released when the screen leaves the stack.
type Closer interface {
	Close()
}

// InputCapturer is implemented by screens that sometimes need raw keys,
// e.g. while a text field has focus. While CapturesInput is true the router
// does not treat esc as back navigation.
type InputCapturer interface {
	CapturesInput() bool
}

// Router manages navigation between screens using a stack-based approach
type Router struct {
	stack  []Screen
	width  int
	height int
}

// New creates a new router with the initial screen
func New(initialScreen Screen) *Router {
	return &Router{
		stack: []Screen{initialScreen},
	}
}

// Init initializes the router
func (r *Router) Init() tea.Cmd {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1].Init()
}

// Update processes messages and updates the current screen
func (r *Router) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "esc" && len(r.stack) > 1 && !Capturing(r.Current()) {
			return r, r.Back()
		}
	}

	if len(r.stack) == 0 {
		return r, nil
	}
	updated, cmd := r.stack[len(r.stack)-1].Update(msg)
	r.stack[len(r.stack)-1] = updated
	return r, cmd
}

// Capturing reports whether s currently wants raw key input.
func Capturing(s Screen) bool {
	c, ok := s.(InputCapturer)
	return ok && c.CapturesInput()
}

// View renders the current screen
func (r *Router) View() string {
	if len(r.stack) == 0 {
		return "No screen available"
	}
	return r.stack[len(r.stack)-1].View()
}

// SetSize sets the size for the router and current screen
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height

	if len(r.stack) > 0 {
		r.stack[len(r.stack)-1].SetSize(width, height)
	}
}

// Push adds a new screen to the navigation stack
func (r *Router) Push(screen Screen) tea.Cmd {
	screen.SetSize(r.width, r.height)
	r.stack = append(r.stack, screen)
	return screen.Init()
}

// Pop removes and closes the current screen. The screen below keeps its
// state and is only resized.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil // Can't pop the last screen
	}

	closeScreen(r.stack[len(r.stack)-1])
	r.stack = r.stack[:len(r.stack)-1]
	r.stack[len(r.stack)-1].SetSize(r.width, r.height)
	return nil
}

// Replace replaces the current screen with a new one
func (r *Router) Replace(screen Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(screen)
	}

	closeScreen(r.stack[len(r.stack)-1])
	screen.SetSize(r.width, r.height)
	r.stack[len(r.stack)-1] = screen
	return screen.Init()
}

// Back navigates back to the previous screen
func (r *Router) Back() tea.Cmd {
	return r.Pop()
}

// Current returns the current screen
func (r *Router) Current() Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.stack)
}

// Clear closes every screen above the root
func (r *Router) Clear() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}

	for i := len(r.stack) - 1; i >= 1; i-- {
		closeScreen(r.stack[i])
	}
	r.stack = r.stack[:1]
	r.stack[0].SetSize(r.width, r.height)
	return nil
}

// CloseAll closes every screen, root included. Used on program exit.
func (r *Router) CloseAll() {
	for i := len(r.stack) - 1; i >= 0; i-- {
		closeScreen(r.stack[i])
	}
}

// CanGoBack returns true if there are screens to go back to
func (r *Router) CanGoBack() bool {
	return len(r.stack) > 1
}

func closeScreen(s Screen) {
	if c, ok := s.(Closer); ok {
		c.Close()
	}
}
