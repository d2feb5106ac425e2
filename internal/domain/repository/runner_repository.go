package repository

import (
	"context"

	"jasper-launcher/internal/domain/model"
)

// RunnerRepository executes orchestration commands against the compose project.
type RunnerRepository interface {
	// Run executes one invocation and blocks until the process exits.
	Run(ctx context.Context, inv model.ComposeInvocation) (model.CommandRun, error)

	// KillCurrent kills the tracked child process, if any, and waits for it.
	KillCurrent()
}

// ContainerRepository reads the runtime state of the compose project.
type ContainerRepository interface {
	Containers(ctx context.Context) ([]model.Container, error)

	// LocalTags lists tags of repository present in the local image store.
	LocalTags(ctx context.Context, repository string) ([]string, error)
}
