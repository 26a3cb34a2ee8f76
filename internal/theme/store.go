// Package theme owns the light/dark preference shared by every view.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"dsaview/internal/eventbus"
)

// FileName is the preference file kept next to config.toml
const FileName = "preferences.toml"

type preferences struct {
	DarkMode *bool `toml:"dark_mode,omitempty"`
}

// Store resolves the effective theme from an explicit user choice, falling
// back to the system preference. Every effective change is published as a
// ThemeChangedEvent.
type Store struct {
	mu       sync.Mutex
	fs       afero.Fs
	path     string
	bus      eventbus.EventBus
	logger   *zap.Logger
	system   bool
	explicit *bool
}

// Options for NewStore
type Options struct {
	Fs         afero.Fs
	Path       string
	SystemDark bool
	Bus        eventbus.EventBus
	Logger     *zap.Logger
}

// NewStore loads any stored preference. A missing file is not an error.
func NewStore(opts Options) (*Store, error) {
	s := &Store{
		fs:     opts.Fs,
		path:   opts.Path,
		bus:    opts.Bus,
		logger: opts.Logger,
		system: opts.SystemDark,
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs preferences
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	s.explicit = prefs.DarkMode
	return s, nil
}

// Dark reports the effective theme.
func (s *Store) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effective()
}

// Explicit reports whether the user has stored a choice.
func (s *Store) Explicit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.explicit != nil
}

func (s *Store) effective() bool {
	if s.explicit != nil {
		return *s.explicit
	}
	return s.system
}

// Toggle flips the effective theme and stores it as an explicit choice.
func (s *Store) Toggle() (bool, error) {
	s.mu.Lock()
	dark := !s.effective()
	prev := s.explicit
	s.explicit = &dark
	if err := s.save(); err != nil {
		s.explicit = prev
		s.mu.Unlock()
		return !dark, err
	}
	s.mu.Unlock()

	s.publish(eventbus.ThemeChangedEvent{Dark: dark, Explicit: true})
	return dark, nil
}

// SystemChanged records a new system preference. The effective theme only
// follows it while no explicit choice is stored.
func (s *Store) SystemChanged(dark bool) {
	s.mu.Lock()
	before := s.effective()
	s.system = dark
	after := s.effective()
	s.mu.Unlock()

	if before != after {
		s.publish(eventbus.ThemeChangedEvent{Dark: after})
	}
}

// Reset forgets the explicit choice and removes the preference file.
func (s *Store) Reset() error {
	s.mu.Lock()
	before := s.effective()
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.mu.Unlock()
		return fmt.Errorf("failed to remove preferences: %w", err)
	}
	s.explicit = nil
	after := s.effective()
	s.mu.Unlock()

	if before != after {
		s.publish(eventbus.ThemeChangedEvent{Dark: after})
	}
	return nil
}

// save must be called with s.mu held.
func (s *Store) save() error {
	data, err := toml.Marshal(preferences{DarkMode: s.explicit})
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	s.logger.Debug("preferences saved", zap.String("path", s.path))
	if s.bus != nil {
		s.bus.Publish(eventbus.PreferenceSavedEvent{Path: s.path})
	}
	return nil
}

func (s *Store) publish(e eventbus.ThemeChangedEvent) {
	s.logger.Info("theme changed", zap.Bool("dark", e.Dark), zap.Bool("explicit", e.Explicit))
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
