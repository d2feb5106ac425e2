package repository

import (
	"context"

	"jasper-launcher/internal/domain/model"
)

// HistoryRepository records orchestration runs.
type HistoryRepository interface {
	Record(ctx context.Context, run model.CommandRun) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]model.CommandRun, error)
}
