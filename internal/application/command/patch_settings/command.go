package patch_settings

// PatchSettingsCommand updates a single settings field by name. Value carries
// whatever type the caller decoded.
type PatchSettingsCommand struct {
	Field string
	Value any
}

// Name returns the name of the command
func (c PatchSettingsCommand) Name() string {
	return "PatchSettings"
}
