package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// UpdateSender feeds messages produced outside the update loop (log hooks)
// into the program without ever blocking the producer.
type UpdateSender struct {
	msgChan        chan tea.Msg
	droppedUpdates uint64
	sentUpdates    uint64
	logger         *zap.Logger
	statsInterval  time.Duration
	stopStats      chan struct{}
}

// NewUpdateSender creates a sender with a buffer of size slots.
func NewUpdateSender(size int, logger *zap.Logger) *UpdateSender {
	us := &UpdateSender{
		msgChan:       make(chan tea.Msg, size),
		logger:        logger,
		statsInterval: 30 * time.Second,
		stopStats:     make(chan struct{}),
	}
	go us.logStats()
	return us
}

// SendUpdate sends a message to UI without blocking
func (us *UpdateSender) SendUpdate(msg tea.Msg) {
	select {
	case us.msgChan <- msg:
		atomic.AddUint64(&us.sentUpdates, 1)
	default:
		atomic.AddUint64(&us.droppedUpdates, 1)
	}
}

// Listen returns a command that waits for the next message. The receiver
// must re-issue it after each delivery.
func (us *UpdateSender) Listen() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-us.msgChan
		if !ok {
			return nil
		}
		return msg
	}
}

// LogHook is a zap hook publishing warn+ entries as LogMsg. Use it with
// zap.Hooks on the TUI logger.
func (us *UpdateSender) LogHook(entry zapcore.Entry) error {
	if entry.Level < zapcore.WarnLevel {
		return nil
	}
	us.SendUpdate(LogMsg{Level: entry.Level, Logger: entry.LoggerName, Message: entry.Message})
	return nil
}

// GetStats returns current statistics
func (us *UpdateSender) GetStats() (sent, dropped uint64) {
	sent = atomic.LoadUint64(&us.sentUpdates)
	dropped = atomic.LoadUint64(&us.droppedUpdates)
	return sent, dropped
}

func (us *UpdateSender) logStats() {
	ticker := time.NewTicker(us.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, dropped := us.GetStats()
			if dropped > 0 {
				// Debug: a warn here would feed the hook again
				us.logger.Debug("UI update statistics",
					zap.Uint64("sent", sent),
					zap.Uint64("dropped", dropped))
			}
		case <-us.stopStats:
			return
		}
	}
}

// Close stops the stats loop.
func (us *UpdateSender) Close() {
	close(us.stopStats)
}
