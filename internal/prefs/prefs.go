// Package prefs persists the small amount of local UI state that survives
// restarts.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const keyGuideSeen = "guide_seen"

// Store is a JSON state file backed by viper.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads path if it exists. A missing file is an empty store.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault(keyGuideSeen, false)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read state file %s: %w", path, err)
	}
	return &Store{v: v, path: path}, nil
}

// GuideSeen reports whether the onboarding guide was dismissed before.
func (s *Store) GuideSeen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool(keyGuideSeen)
}

// MarkGuideSeen persists the flag.
func (s *Store) MarkGuideSeen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(keyGuideSeen, true)
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Reset clears the flag so the guide shows again.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(keyGuideSeen, false)
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	return s.v.WriteConfigAs(s.path)
}
