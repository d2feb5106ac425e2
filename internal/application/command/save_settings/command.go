package save_settings

import "jasper-launcher/internal/domain/model"

// SaveSettingsCommand replaces the whole settings record and restarts the stack.
type SaveSettingsCommand struct {
	Settings model.Settings
}

// Name returns the name of the command
func (c SaveSettingsCommand) Name() string {
	return "SaveSettings"
}
