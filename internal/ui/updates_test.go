package ui

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestUpdateSenderNonBlocking(t *testing.T) {
	sender := NewUpdateSender(10, zap.NewNop())
	defer sender.Close()

	for i := 0; i < 10; i++ {
		sender.SendUpdate(StatusMsg{Message: "fill"})
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		sender.SendUpdate(StatusMsg{Message: "dropped"})
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	sent, dropped := sender.GetStats()
	assert.Equal(t, uint64(10), sent)
	assert.Equal(t, uint64(100), dropped)
}

func TestUpdateSenderConcurrent(t *testing.T) {
	sender := NewUpdateSender(100, zap.NewNop())
	defer sender.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sender.SendUpdate(StatusMsg{Message: "x"})
			}
		}()
	}
	wg.Wait()

	sent, dropped := sender.GetStats()
	assert.Equal(t, uint64(1000), sent+dropped)
	assert.Equal(t, uint64(100), sent)
}

func TestLogHookPublishesWarnings(t *testing.T) {
	sender := NewUpdateSender(4, zap.NewNop())
	defer sender.Close()

	// hooks run only for entries the core accepts
	log := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(discard{}),
		zapcore.DebugLevel,
	), zap.Hooks(sender.LogHook)).Named("api")

	log.Info("ignored")
	log.Error("Error fetching data")

	msg := sender.Listen()()
	lm, ok := msg.(LogMsg)
	require.True(t, ok)
	assert.Equal(t, zapcore.ErrorLevel, lm.Level)
	assert.Equal(t, "api", lm.Logger)
	assert.Equal(t, "Error fetching data", lm.Message)

	sent, _ := sender.GetStats()
	assert.Equal(t, uint64(1), sent)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
