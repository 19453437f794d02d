// Package prefs keeps the local preferences file (TOML) and publishes its
// contents to subscribers, including edits made outside the program.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/dailyquote/internal/client/models"
	"github.com/dmitrijs2005/dailyquote/internal/filex"
	"github.com/dmitrijs2005/dailyquote/internal/logging"
	"github.com/dmitrijs2005/dailyquote/internal/observable"
	"github.com/dmitrijs2005/dailyquote/internal/validatex"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPath is where preferences live unless configured otherwise.
const DefaultPath = "~/.dailyquote/prefs.toml"

// Load reads preferences from path. A missing file yields the defaults and
// keys absent from the file keep their default values.
func Load(path string) (models.Preferences, error) {
	p := models.DefaultPreferences()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read prefs: %w", err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return models.DefaultPreferences(), fmt.Errorf("parse prefs: %w", err)
	}
	if err := validatex.Struct(p); err != nil {
		return models.DefaultPreferences(), fmt.Errorf("invalid prefs: %w", err)
	}
	return p, nil
}

// Save writes p to path, creating parent directories as needed.
func Save(path string, p models.Preferences) error {
	if err := validatex.Struct(p); err != nil {
		return err
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Store is the live view of one preferences file.
type Store struct {
	path    string
	logger  logging.Logger
	subject *observable.Subject[models.Preferences]

	mu sync.Mutex
}

// Open loads the file at path. A corrupt or invalid file is logged and
// replaced by the defaults in memory; it is only overwritten on the next
// Update.
func Open(ctx context.Context, path string, logger logging.Logger) (*Store, error) {
	resolved, err := filex.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	p, err := Load(resolved)
	if err != nil {
		logger.Warn(ctx, "Preferences file ignored", "path", resolved, "error", err)
	}
	return &Store{
		path:    resolved,
		logger:  logger,
		subject: observable.NewSubjectWith(p),
	}, nil
}

// Path is the file the store saves to.
func (s *Store) Path() string { return s.path }

// Get returns the current preferences.
func (s *Store) Get() models.Preferences {
	v, _ := s.subject.Value()
	return v
}

// Subscribe streams every saved change, starting with the current value.
func (s *Store) Subscribe() (<-chan models.Preferences, func()) {
	return s.subject.Subscribe()
}

// Update applies fn to a copy of the current preferences, validates and
// saves the result, then publishes it. Nothing changes when validation
// fails.
func (s *Store) Update(fn func(p *models.Preferences)) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.Get()
	fn(&p)
	if err := Save(s.path, p); err != nil {
		return s.Get(), err
	}
	s.subject.Publish(p)
	return p, nil
}

// reload re-reads the file and publishes it when it differs from the
// current value.
func (s *Store) reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := Load(s.path)
	if err != nil {
		s.logger.Warn(ctx, "Preferences reload failed", "path", s.path, "error", err)
		return
	}
	if p == s.Get() {
		return
	}
	s.logger.Info(ctx, "Preferences changed on disk", "path", s.path)
	s.subject.Publish(p)
}
