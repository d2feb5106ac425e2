package application

import (
	"context"
	"time"

	"jasper-launcher/internal/application/notify"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/files"
	"jasper-launcher/pkg/log"
)

// SettingsWatcher reloads the settings record when settings.json is edited
// outside the launcher. The stack is not restarted; the new values apply on
// the next start.
type SettingsWatcher struct {
	fileWatcher *files.FileWatcher
	settings    repository.SettingsRepository
	publisher   notify.Publisher
}

// NewSettingsWatcher creates a watcher for the repository's file.
func NewSettingsWatcher(settings repository.SettingsRepository, publisher notify.Publisher) *SettingsWatcher {
	w := &SettingsWatcher{
		settings:  settings,
		publisher: publisher,
	}
	w.fileWatcher = files.NewFileWatcher(settings.Path(), w.handleFileChange)
	return w
}

// Start begins watching the settings file.
func (w *SettingsWatcher) Start(ctx context.Context) error {
	log.Info("Settings watcher starting", "path", w.fileWatcher.GetFilePath())
	return w.fileWatcher.Start(ctx)
}

// Stop stops watching the settings file.
func (w *SettingsWatcher) Stop() {
	w.fileWatcher.Stop()
}

// SetInterval sets the interval for checking file changes
func (w *SettingsWatcher) SetInterval(interval time.Duration) {
	w.fileWatcher.SetInterval(interval)
}

// handleFileChange reloads the record. Writes made by the launcher itself
// reload identical values and are not announced.
func (w *SettingsWatcher) handleFileChange(string) {
	before := w.settings.Get()
	after, err := w.settings.Load()
	if err != nil {
		log.Error("Failed to reload settings, keeping the previous record", "error", err)
		return
	}
	if after == before {
		return
	}
	log.Info("Settings file changed outside the launcher, reloaded")
	if w.publisher != nil {
		w.publisher.Publish(model.NewEvent(model.EventSettings, after))
	}
}
