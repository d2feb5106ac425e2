package docker_command

import (
	"context"

	"jasper-launcher/pkg/log"
)

// Executor runs named orchestration commands.
type Executor interface {
	Execute(ctx context.Context, name string) error
}

// DockerCommandHandler handles the DockerCommand
type DockerCommandHandler struct {
	stack Executor
}

// Handle executes the DockerCommand
func (h *DockerCommandHandler) Handle(ctx context.Context, cmd DockerCommand) error {
	log.Info("Processing docker command", "command", cmd.Command)
	return h.stack.Execute(ctx, cmd.Command)
}

// NewDockerCommandHandler creates a new DockerCommandHandler
func NewDockerCommandHandler(stack Executor) *DockerCommandHandler {
	return &DockerCommandHandler{stack: stack}
}
