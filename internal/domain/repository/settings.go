package repository

import (
	"jasper-launcher/internal/domain/model"
)

// SettingsRepository owns the single live configuration record.
type SettingsRepository interface {
	// Load reads the persisted record, creating and persisting defaults on first run.
	Load() (model.Settings, error)

	// Get returns a snapshot of the in-memory record.
	Get() model.Settings

	// Save replaces the whole record and persists it.
	Save(settings model.Settings) error

	// Patch applies a best-effort single-field update and persists the record.
	// Unknown fields and mismatched value types leave the record unchanged.
	Patch(name string, value any) error

	// Path returns the on-disk location, fixed for the lifetime of the repository.
	Path() string
}
