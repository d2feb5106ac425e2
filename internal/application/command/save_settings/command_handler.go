package save_settings

import (
	"context"
	"fmt"

	"jasper-launcher/internal/application/notify"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/log"
)

// Restarter stops and starts the compose stack.
type Restarter interface {
	Restart(ctx context.Context) error
}

// WriteObserver is told about every settings write.
type WriteObserver interface {
	ObserveSettingsWrite(kind string, err error)
}

// SaveSettingsHandler handles the SaveSettingsCommand
type SaveSettingsHandler struct {
	repository repository.SettingsRepository
	stack      Restarter
	publisher  notify.Publisher
	observer   WriteObserver
}

// Handle persists the new record first, then restarts the stack so the new
// environment takes effect. A failed write leaves the stack untouched.
func (h *SaveSettingsHandler) Handle(ctx context.Context, cmd SaveSettingsCommand) error {
	log.Info("Processing save settings request")

	err := h.repository.Save(cmd.Settings)
	if h.observer != nil {
		h.observer.ObserveSettingsWrite("save", err)
	}
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if h.publisher != nil {
		h.publisher.Publish(model.NewEvent(model.EventSettings, h.repository.Get()))
	}

	if err := h.stack.Restart(ctx); err != nil {
		return fmt.Errorf("settings saved but restart failed: %w", err)
	}
	return nil
}

// NewSaveSettingsHandler creates a new SaveSettingsHandler. publisher and observer may be nil.
func NewSaveSettingsHandler(repo repository.SettingsRepository, stack Restarter, publisher notify.Publisher, observer WriteObserver) *SaveSettingsHandler {
	return &SaveSettingsHandler{
		repository: repo,
		stack:      stack,
		publisher:  publisher,
		observer:   observer,
	}
}
