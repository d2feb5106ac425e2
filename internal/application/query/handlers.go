package query

import (
	"jasper-launcher/internal/application/query/fetch_settings"
	"jasper-launcher/internal/application/query/get_history"
	"jasper-launcher/internal/application/query/get_image_tags"
	"jasper-launcher/internal/application/query/get_stack_status"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/cqrs"
	"jasper-launcher/pkg/log"
)

// RegisterQueryHandlers registers every query handler on b. containers and
// history may be nil when Docker or the history store is unavailable.
func RegisterQueryHandlers(b cqrs.QueryBus, settings repository.SettingsRepository, state get_stack_status.StateProvider, containers repository.ContainerRepository, history repository.HistoryRepository, project string, repositories get_image_tags.Repositories) error {
	if err := b.Register(fetch_settings.NewFetchSettingsQueryHandler(settings)); err != nil {
		return log.Errorf("failed to register fetch settings query handler: %v", err)
	}

	if err := b.Register(get_image_tags.NewGetImageTagsQueryHandler(containers, repositories)); err != nil {
		return log.Errorf("failed to register get image tags query handler: %v", err)
	}

	if err := b.Register(get_stack_status.NewGetStackStatusQueryHandler(state, containers, project)); err != nil {
		return log.Errorf("failed to register get stack status query handler: %v", err)
	}

	if err := b.Register(get_history.NewGetHistoryQueryHandler(history)); err != nil {
		return log.Errorf("failed to register get history query handler: %v", err)
	}

	return nil
}
