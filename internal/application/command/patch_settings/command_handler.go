package patch_settings

import (
	"context"
	"fmt"

	"jasper-launcher/internal/application/command/save_settings"
	"jasper-launcher/internal/application/notify"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/log"
)

// PatchSettingsHandler handles the PatchSettingsCommand
type PatchSettingsHandler struct {
	repository repository.SettingsRepository
	publisher  notify.Publisher
	observer   save_settings.WriteObserver
}

// Handle applies the patch. Unknown fields and mismatched types are ignored by
// the repository; only a failed write is an error. The stack is not restarted.
func (h *PatchSettingsHandler) Handle(_ context.Context, cmd PatchSettingsCommand) error {
	log.Debug("Processing patch settings request", "field", cmd.Field)

	err := h.repository.Patch(cmd.Field, cmd.Value)
	if h.observer != nil {
		h.observer.ObserveSettingsWrite("patch", err)
	}
	if err != nil {
		return fmt.Errorf("failed to patch settings: %w", err)
	}
	if h.publisher != nil {
		h.publisher.Publish(model.NewEvent(model.EventSettings, h.repository.Get()))
	}
	return nil
}

// NewPatchSettingsHandler creates a new PatchSettingsHandler
func NewPatchSettingsHandler(repo repository.SettingsRepository, publisher notify.Publisher, observer save_settings.WriteObserver) *PatchSettingsHandler {
	return &PatchSettingsHandler{
		repository: repo,
		publisher:  publisher,
		observer:   observer,
	}
}
