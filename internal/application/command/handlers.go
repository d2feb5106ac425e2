package command

import (
	"context"

	"jasper-launcher/internal/application/command/docker_command"
	"jasper-launcher/internal/application/command/patch_settings"
	"jasper-launcher/internal/application/command/save_settings"
	"jasper-launcher/internal/application/notify"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/cqrs"
	"jasper-launcher/pkg/log"
)

// Stack is the orchestration surface the command handlers drive.
type Stack interface {
	Execute(ctx context.Context, name string) error
	Restart(ctx context.Context) error
}

// RegisterCommandHandlers registers every command handler on b. publisher and
// observer may be nil.
func RegisterCommandHandlers(b cqrs.CommandBus, settings repository.SettingsRepository, stack Stack, publisher notify.Publisher, observer save_settings.WriteObserver) error {
	if err := b.Register(save_settings.NewSaveSettingsHandler(settings, stack, publisher, observer)); err != nil {
		return log.Errorf("failed to register save settings handler: %v", err)
	}

	if err := b.Register(patch_settings.NewPatchSettingsHandler(settings, publisher, observer)); err != nil {
		return log.Errorf("failed to register patch settings handler: %v", err)
	}

	if err := b.Register(docker_command.NewDockerCommandHandler(stack)); err != nil {
		return log.Errorf("failed to register docker command handler: %v", err)
	}

	return nil
}
