package logger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogBufferConcurrentAccess(t *testing.T) {
	spill := filepath.Join(t.TempDir(), "spill.log")
	buffer, err := NewLogBuffer(100, spill, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create log buffer: %v", err)
	}
	done := buffer.StartPeriodicFlush(20 * time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := buffer.Add("INFO", fmt.Sprintf("g%d-%d", id, j), nil); err != nil {
					t.Errorf("Failed to add log: %v", err)
				}
				_ = buffer.GetRecentLogs(5)
			}
		}(i)
	}
	wg.Wait()
	close(done)

	total, spilled := buffer.GetStats()
	if total != 500 {
		t.Errorf("Expected 500 entries, got %d", total)
	}
	if spilled != 400 {
		t.Errorf("Expected 400 spilled entries, got %d", spilled)
	}
	if got := len(buffer.GetRecentLogs(0)); got != 100 {
		t.Errorf("Expected 100 buffered entries, got %d", got)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(spill)
	require.NoError(t, err)
	defer f.Close()
	lines := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines++
	}
	assert.Equal(t, 500, lines)
}

func TestLogBufferRingOrder(t *testing.T) {
	buffer, err := NewLogBuffer(3, "", zap.NewNop())
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("m%d", i), nil))
	}
	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 3)
	assert.Equal(t, "m3", logs[0].Message)
	assert.Equal(t, "m5", logs[2].Message)

	logs = buffer.GetRecentLogs(2)
	require.Len(t, logs, 2)
	assert.Equal(t, "m4", logs[0].Message)
	assert.EqualValues(t, 5, buffer.Version())
}

func TestTUILoggerWritesIntoBuffer(t *testing.T) {
	buffer, err := NewLogBuffer(50, "", zap.NewNop())
	require.NoError(t, err)

	log, err := CreateTUILogger(false, buffer)
	require.NoError(t, err)

	log.Named("pager").Info("First page loaded", zap.Int("count", 50))
	log.Debug("hidden")
	log.Warn("Retrying request", zap.String("url", "http://x"))
	log.Error("Failed", zap.Error(errors.New("boom")))

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 3)
	assert.Equal(t, "info", logs[0].Level)
	assert.Equal(t, "pager", logs[0].Logger)
	assert.Equal(t, "First page loaded", logs[0].Message)
	assert.EqualValues(t, 50, logs[0].Fields["count"])
	assert.False(t, logs[0].Timestamp.IsZero())

	warnings := buffer.GetRecentLogsAtLevel(0, zapcore.WarnLevel)
	require.Len(t, warnings, 2)
	assert.Equal(t, "boom", warnings[1].Fields["error"])

	_, err = CreateTUILogger(false, nil)
	assert.Error(t, err)
}

func TestLogBufferWriteNonJSON(t *testing.T) {
	buffer, err := NewLogBuffer(5, "", zap.NewNop())
	require.NoError(t, err)

	n, err := buffer.Write([]byte("plain line\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	assert.Equal(t, "plain line", logs[0].Message)
	assert.Equal(t, "info", logs[0].Level)
}

func TestPrettyLoggerFiltersFields(t *testing.T) {
	var out bytes.Buffer
	log := CreatePrettyLogger(false, &out, "count")

	log.Info("Loaded wallets", zap.Int("count", 3), zap.String("url", "http://secret"))
	log.Error("Lookup failed", zap.Error(errors.New("not found")))

	text := out.String()
	assert.Contains(t, text, "Loaded wallets")
	assert.Contains(t, text, "count")
	assert.NotContains(t, text, "secret")
	assert.Contains(t, text, "not found")

	out.Reset()
	CreatePrettyLogger(true, &out).Debug("verbose", zap.String("url", "http://x"))
	assert.True(t, strings.Contains(out.String(), "http://x"))
}

func TestCLILoggerTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cli.log")
	sink, err := OpenFileSink(path, 0, zap.NewNop())
	require.NoError(t, err)

	var console bytes.Buffer
	log := CreateCLILogger(false, &console, sink)
	log.Debug("file only", zap.String("address", "abc"))
	log.Info("both")
	require.NoError(t, log.Sync())
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"file only"`)
	assert.Contains(t, string(data), `"address":"abc"`)
	assert.Contains(t, console.String(), "both")
	assert.NotContains(t, console.String(), "file only")
}

func TestFileSinkPeriodicFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slow.log")
	sink, err := OpenFileSink(path, 10*time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open sink: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := fmt.Fprintf(sink, "line %d\n", i); err != nil {
			t.Errorf("Failed to write line: %v", err)
		}
		time.Sleep(15 * time.Millisecond)
	}

	writes, flushes := sink.Stats()
	if writes != 5 {
		t.Errorf("Expected 5 writes, got %d", writes)
	}
	if flushes < 2 {
		t.Errorf("Expected multiple periodic flushes, got %d", flushes)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
