package application

import (
	"context"

	"jasper-launcher/internal/application/config"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/internal/infra/history"
	"jasper-launcher/internal/infra/orchestrator/docker_compose"
	"jasper-launcher/internal/infra/settings"
	"jasper-launcher/pkg/log"
)

// NewSettingsRepository returns the settings record stored under dataPath.
func NewSettingsRepository(dataPath string) *settings.Store {
	return settings.NewStore(dataPath)
}

// NewRunnerRepository returns the docker compose runner for the configured project.
func NewRunnerRepository(cfg *config.Config, dataPath string, onLine docker_compose.LineHandler) repository.RunnerRepository {
	return docker_compose.NewRunner(docker_compose.Options{
		Binary:      cfg.DockerBinary,
		ProjectName: cfg.ProjectName,
		ComposeFile: cfg.ComposeFilePath(dataPath),
	}, onLine)
}

// NewContainerRepository connects to the Docker engine. The launcher still
// works without it, so a failure is logged and nil is returned.
func NewContainerRepository(cfg *config.Config) repository.ContainerRepository {
	dockerClient, err := docker_compose.NewDockerClient()
	if err != nil {
		log.Warn("Docker engine unavailable, stack status and local tags disabled", "error", err)
		return nil
	}
	return docker_compose.NewInspector(dockerClient, cfg.ProjectName)
}

// NewHistoryRepository opens the command history when the feature is enabled.
// The returned close function is never nil.
func NewHistoryRepository(ctx context.Context, cfg *config.Config, dataPath string) (repository.HistoryRepository, func() error) {
	noop := func() error { return nil }
	if !cfg.IsFeatureEnabled(config.FeatureHistory) {
		return nil, noop
	}
	store, err := history.Open(ctx, config.HistoryPath(dataPath))
	if err != nil {
		log.Warn("Command history unavailable", "error", err)
		return nil, noop
	}
	return store, store.Close
}
