package ui

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// RecoveryHandler runs the TUI program and restarts it after a panic.
type RecoveryHandler struct {
	logger       *zap.Logger
	restartDelay time.Duration
	maxRestarts  int
	restartCount int
	mu           sync.Mutex
	program      *tea.Program
	createUI     func() (tea.Model, []tea.ProgramOption)
}

// NewRecoveryHandler creates a new recovery handler
func NewRecoveryHandler(logger *zap.Logger, createUI func() (tea.Model, []tea.ProgramOption)) *RecoveryHandler {
	return &RecoveryHandler{
		logger:       logger.Named("recovery"),
		restartDelay: 2 * time.Second,
		maxRestarts:  5,
		createUI:     createUI,
	}
}

// SetRestartPolicy overrides the delay between restarts and their limit.
func (rh *RecoveryHandler) SetRestartPolicy(delay time.Duration, maxRestarts int) *RecoveryHandler {
	rh.restartDelay = delay
	rh.maxRestarts = maxRestarts
	return rh
}

// RunWithRecovery runs the UI until it exits normally, ctx is cancelled or
// it crashed more than the allowed number of times.
func (rh *RecoveryHandler) RunWithRecovery(ctx context.Context) error {
	for {
		err := rh.runUI(ctx)
		if err == nil || ctx.Err() != nil {
			return nil
		}

		rh.mu.Lock()
		rh.restartCount++
		count := rh.restartCount
		rh.mu.Unlock()

		if count > rh.maxRestarts {
			return fmt.Errorf("UI crashed too many times (%d), giving up: %w", rh.maxRestarts, err)
		}

		rh.logger.Error("UI crashed, will restart",
			zap.Error(err),
			zap.Int("restart_count", count),
			zap.Duration("delay", rh.restartDelay))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(rh.restartDelay):
		}
	}
}

func (rh *RecoveryHandler) runUI(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			err = fmt.Errorf("UI panic: %v", r)
			rh.logger.Error("UI panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(stack)))
		}
	}()

	model, opts := rh.createUI()
	opts = append(opts, tea.WithContext(ctx))

	p := tea.NewProgram(model, opts...)
	rh.mu.Lock()
	rh.program = p
	rh.mu.Unlock()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}

// Send delivers msg to the running program, if any.
func (rh *RecoveryHandler) Send(msg tea.Msg) {
	rh.mu.Lock()
	p := rh.program
	rh.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Stop gracefully stops the UI
func (rh *RecoveryHandler) Stop() {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	if rh.program != nil {
		rh.program.Quit()
		rh.program = nil
	}
}

// GetRestartCount returns the number of restarts
func (rh *RecoveryHandler) GetRestartCount() int {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return rh.restartCount
}

// SafeUIWrapper keeps a panic in one Update or View from taking the program
// down. The wrapped model's state before the panic is kept.
type SafeUIWrapper struct {
	model  tea.Model
	logger *zap.Logger
}

// NewSafeUIWrapper creates a new safe UI wrapper
func NewSafeUIWrapper(model tea.Model, logger *zap.Logger) *SafeUIWrapper {
	return &SafeUIWrapper{
		model:  model,
		logger: logger,
	}
}

// Init wraps the Init method with panic recovery
func (sw *SafeUIWrapper) Init() (cmd tea.Cmd) {
	defer sw.recoverFromPanic("Init", &cmd)
	return sw.model.Init()
}

// Update wraps the Update method with panic recovery
func (sw *SafeUIWrapper) Update(msg tea.Msg) (m tea.Model, cmd tea.Cmd) {
	m = sw
	defer sw.recoverFromPanic("Update", &cmd)
	model, cmd := sw.model.Update(msg)
	sw.model = model
	return sw, cmd
}

// View wraps the View method with panic recovery
func (sw *SafeUIWrapper) View() (view string) {
	defer func() {
		if r := recover(); r != nil {
			sw.logger.Error("View panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			view = "UI Error: View crashed. Press Ctrl+C to exit."
		}
	}()
	return sw.model.View()
}

// Model returns the wrapped model.
func (sw *SafeUIWrapper) Model() tea.Model {
	return sw.model
}

func (sw *SafeUIWrapper) recoverFromPanic(method string, cmd *tea.Cmd) {
	if r := recover(); r != nil {
		sw.logger.Error("UI method panic recovered",
			zap.String("method", method),
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())))
		*cmd = nil
	}
}
