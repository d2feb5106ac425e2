package fetch_settings

import (
	"context"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
)

// FetchSettingsQueryHandler handles the FetchSettingsQuery
type FetchSettingsQueryHandler struct {
	repository repository.SettingsRepository
}

// Handle returns a snapshot of the in-memory record.
func (h *FetchSettingsQueryHandler) Handle(_ context.Context, _ FetchSettingsQuery) (model.Settings, error) {
	return h.repository.Get(), nil
}

// NewFetchSettingsQueryHandler creates a new FetchSettingsQueryHandler
func NewFetchSettingsQueryHandler(repo repository.SettingsRepository) *FetchSettingsQueryHandler {
	return &FetchSettingsQueryHandler{repository: repo}
}
