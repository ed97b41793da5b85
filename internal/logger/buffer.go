package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogEntry is one decoded log line held in the buffer.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Logger    string                 `json:"logger,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer is a thread-safe ring of recent log entries. Entries pushed out of
// the ring are appended to a JSON-lines spill file. It implements io.Writer
// so a zap JSON core can write straight into it.
type LogBuffer struct {
	mu          sync.Mutex
	ring        []LogEntry
	maxSize     int
	next        int
	wrapped     bool
	spillFile   *os.File
	spillWriter *bufio.Writer
	logger      *zap.Logger

	totalEntries   uint64
	spilledEntries uint64
}

// NewLogBuffer creates a buffer holding maxSize entries. An empty
// spillFilePath disables spilling.
func NewLogBuffer(maxSize int, spillFilePath string, logger *zap.Logger) (*LogBuffer, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", maxSize)
	}
	lb := &LogBuffer{
		ring:    make([]LogEntry, maxSize),
		maxSize: maxSize,
		logger:  logger,
	}
	if spillFilePath == "" {
		return lb, nil
	}

	if err := os.MkdirAll(filepath.Dir(spillFilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(spillFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open spill file: %w", err)
	}
	lb.spillFile = f
	lb.spillWriter = bufio.NewWriter(f)
	return lb, nil
}

// Write decodes one zap JSON entry per line. Lines that are not JSON are
// stored verbatim as info messages.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSpace(string(p)), "\n") {
		if line == "" {
			continue
		}
		if err := lb.push(decodeEntry(line)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Sync flushes the spill file, satisfying zapcore.WriteSyncer.
func (lb *LogBuffer) Sync() error {
	return lb.Flush()
}

// Add stores an entry built from its parts.
func (lb *LogBuffer) Add(level, message string, fields map[string]interface{}) error {
	return lb.push(LogEntry{
		Timestamp: time.Now(),
		Level:     strings.ToLower(level),
		Message:   message,
		Fields:    fields,
	})
}

func (lb *LogBuffer) push(entry LogEntry) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.wrapped {
		if err := lb.spillToFile(lb.ring[lb.next]); err != nil {
			lb.logger.Error("Failed to spill log entry to file", zap.Error(err))
			return err
		}
	}

	lb.ring[lb.next] = entry
	lb.next = (lb.next + 1) % lb.maxSize
	if lb.next == 0 {
		lb.wrapped = true
	}
	lb.totalEntries++
	return nil
}

func (lb *LogBuffer) spillToFile(entry LogEntry) error {
	if lb.spillWriter == nil {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	if _, err := lb.spillWriter.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to spill file: %w", err)
	}
	lb.spilledEntries++
	return nil
}

// GetRecentLogs returns up to limit of the newest entries, oldest first.
// A limit <= 0 returns everything held.
func (lb *LogBuffer) GetRecentLogs(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.recentLocked(limit, zapcore.DebugLevel)
}

// GetRecentLogsAtLevel is GetRecentLogs restricted to entries at or above min.
func (lb *LogBuffer) GetRecentLogsAtLevel(limit int, min zapcore.Level) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.recentLocked(limit, min)
}

func (lb *LogBuffer) recentLocked(limit int, min zapcore.Level) []LogEntry {
	count, start := lb.next, 0
	if lb.wrapped {
		count, start = lb.maxSize, lb.next
	}

	out := make([]LogEntry, 0, count)
	for i := 0; i < count; i++ {
		e := lb.ring[(start+i)%lb.maxSize]
		if parseLevel(e.Level) >= min {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Version changes whenever an entry is added; screens poll it to redraw.
func (lb *LogBuffer) Version() uint64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries
}

// Flush writes buffered spill data to disk.
func (lb *LogBuffer) Flush() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.flushLocked()
}

func (lb *LogBuffer) flushLocked() error {
	if lb.spillWriter == nil {
		return nil
	}
	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush spill writer: %w", err)
	}
	if err := lb.spillFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync spill file: %w", err)
	}
	return nil
}

// Close spills everything still held and closes the file.
func (lb *LogBuffer) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.spillWriter == nil {
		return nil
	}
	for _, e := range lb.recentLocked(0, zapcore.DebugLevel) {
		if err := lb.spillToFile(e); err != nil {
			lb.logger.Error("Failed to spill entry during close", zap.Error(err))
		}
	}
	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush during close: %w", err)
	}
	if err := lb.spillFile.Close(); err != nil {
		return fmt.Errorf("failed to close spill file: %w", err)
	}
	lb.spillWriter = nil
	return nil
}

// GetStats returns total and spilled entry counts.
func (lb *LogBuffer) GetStats() (total, spilled uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries, lb.spilledEntries
}

// StartPeriodicFlush flushes every interval until the returned channel is
// closed.
func (lb *LogBuffer) StartPeriodicFlush(interval time.Duration) chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := lb.Flush(); err != nil {
					lb.logger.Error("Periodic flush failed", zap.Error(err))
				}
			case <-done:
				return
			}
		}
	}()
	return done
}

func decodeEntry(line string) LogEntry {
	raw := map[string]interface{}{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{Timestamp: time.Now(), Level: "info", Message: line}
	}

	entry := LogEntry{Timestamp: time.Now(), Level: "info"}
	if v, ok := raw["time"].(string); ok {
		if ts, err := time.Parse("2006-01-02T15:04:05.000Z0700", v); err == nil {
			entry.Timestamp = ts
		}
	}
	if v, ok := raw["level"].(string); ok {
		entry.Level = strings.ToLower(v)
	}
	if v, ok := raw["logger"].(string); ok {
		entry.Logger = v
	}
	if v, ok := raw["msg"].(string); ok {
		entry.Message = v
	}
	for _, k := range []string{"time", "level", "logger", "msg"} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry
}

func parseLevel(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}
