package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/moby/sys/atomicwriter"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/log"
)

const (
	settingsFileName = "settings.json"
	settingsFileMode = 0o600
)

// Store is the JSON file backed settings repository. One Store exists per
// process; every read and write goes through its mutex and no lock is held
// beyond the file I/O of a single call.
type Store struct {
	mu         sync.Mutex
	appDataDir string
	path       string
	current    model.Settings
}

var _ repository.SettingsRepository = (*Store)(nil)

// NewStore creates a store rooted at the application data directory.
// Nothing is read until Load is called.
func NewStore(appDataDir string) *Store {
	return &Store{
		appDataDir: appDataDir,
		path:       filepath.Join(appDataDir, settingsFileName),
		current:    model.DefaultSettings(appDataDir),
	}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads settings.json. A missing file is replaced by defaults, which are
// persisted before returning; a file that does not parse is never overwritten.
func (s *Store) Load() (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.appDataDir, 0o755); err != nil {
		return model.Settings{}, fmt.Errorf("%w: %w", model.ErrPathUnavailable, err)
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		defaults := model.DefaultSettings(s.appDataDir)
		if err := s.write(defaults); err != nil {
			return model.Settings{}, err
		}
		s.current = defaults
		log.Info("Created default settings", "path", s.path)
		return s.current, nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("%w: failed to read %s: %w", model.ErrPathUnavailable, s.path, err)
	}

	// Fields absent from an older file keep their default value.
	loaded := model.DefaultSettings(s.appDataDir)
	if err := json.Unmarshal(data, &loaded); err != nil {
		return model.Settings{}, fmt.Errorf("%w: %s: %w", model.ErrCorruptRecord, s.path, err)
	}
	s.current = loaded
	log.Debug("Loaded settings", "path", s.path)
	return s.current, nil
}

// Get returns a copy of the current record.
func (s *Store) Get() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save replaces the record and overwrites the file.
func (s *Store) Save(settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(settings); err != nil {
		return err
	}
	s.current = settings
	return nil
}

// Patch applies a single named field update. Unknown names and values of the
// wrong type are ignored; the record is persisted either way.
func (s *Store) Patch(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	patch, err := model.ParsePatch(name, value)
	if err != nil {
		log.Debug("Ignoring settings patch", "field", name, "error", err)
	} else {
		next = patch.Apply(next)
	}

	if err := s.write(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

// write serializes the record and atomically replaces the file. Callers hold mu.
func (s *Store) write(settings model.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrPersistFailure, err)
	}
	if err := atomicwriter.WriteFile(s.path, data, settingsFileMode); err != nil {
		return fmt.Errorf("%w: %s: %w", model.ErrPersistFailure, s.path, err)
	}
	return nil
}
