package get_history

import (
	"context"
	"fmt"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
)

// GetHistoryQueryHandler handles the GetHistoryQuery
type GetHistoryQueryHandler struct {
	repository repository.HistoryRepository
}

// Handle executes the GetHistoryQuery and returns the result
func (h *GetHistoryQueryHandler) Handle(ctx context.Context, query GetHistoryQuery) ([]model.CommandRun, error) {
	if h.repository == nil {
		return []model.CommandRun{}, nil
	}
	runs, err := h.repository.Recent(ctx, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read command history: %w", err)
	}
	return runs, nil
}

// NewGetHistoryQueryHandler creates a new GetHistoryQueryHandler. A nil
// repository yields an empty history.
func NewGetHistoryQueryHandler(repo repository.HistoryRepository) *GetHistoryQueryHandler {
	return &GetHistoryQueryHandler{repository: repo}
}
