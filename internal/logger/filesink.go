package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileSink is a buffered, append-only log file flushed on an interval. It
// satisfies zapcore.WriteSyncer.
type FileSink struct {
	mu     sync.Mutex
	writer *bufio.Writer
	file   *os.File
	path   string
	logger *zap.Logger

	stop chan struct{}
	wg   sync.WaitGroup

	writes  uint64
	flushes uint64
}

// OpenFileSink creates parent directories and opens path for appending.
func OpenFileSink(path string, flushInterval time.Duration, logger *zap.Logger) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	s := &FileSink{
		writer: bufio.NewWriter(f),
		file:   f,
		path:   path,
		logger: logger,
		stop:   make(chan struct{}),
	}
	if flushInterval > 0 {
		s.wg.Add(1)
		go s.flushLoop(flushInterval)
	}
	return s, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.writer.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write data: %w", err)
	}
	s.writes++
	return n, nil
}

// Sync flushes buffered data and syncs the file.
func (s *FileSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked()
}

func (s *FileSink) syncLocked() error {
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	s.flushes++
	return nil
}

func (s *FileSink) flushLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.Sync(); err != nil {
				s.logger.Error("Periodic flush failed", zap.String("file", s.path), zap.Error(err))
			}
		case <-s.stop:
			return
		}
	}
}

// Close stops the flush loop, flushes and closes the file.
func (s *FileSink) Close() error {
	close(s.stop)
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// Stats returns the number of writes and flushes so far.
func (s *FileSink) Stats() (writes, flushes uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes, s.flushes
}
