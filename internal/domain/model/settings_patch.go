package model

import (
	"fmt"
)

// PatchField names a settings field that may be updated on its own.
type PatchField string

const (
	PatchAutoUpdate      PatchField = "autoUpdate"
	PatchShowLogsOnStart PatchField = "showLogsOnStart"
)

// SettingsPatch is a single-field update. Only the fields listed above can be
// patched; everything else goes through a full save.
type SettingsPatch struct {
	Field PatchField
	Bool  bool
}

// ParsePatch converts a dynamically typed name/value pair into a SettingsPatch.
func ParsePatch(name string, value any) (SettingsPatch, error) {
	field := PatchField(name)
	switch field {
	case PatchAutoUpdate, PatchShowLogsOnStart:
		b, ok := value.(bool)
		if !ok {
			return SettingsPatch{}, fmt.Errorf("%w: %s expects a boolean, got %T", ErrPatchType, name, value)
		}
		return SettingsPatch{Field: field, Bool: b}, nil
	default:
		return SettingsPatch{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// Apply returns a copy of s with the patch applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	switch p.Field {
	case PatchAutoUpdate:
		s.AutoUpdate = p.Bool
	case PatchShowLogsOnStart:
		s.ShowLogsOnStart = p.Bool
	}
	return s
}
