package docker_compose

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/log"
)

const (
	labelProject = "com.docker.compose.project"
	labelService = "com.docker.compose.service"
)

// DockerAPI is the subset of the Docker engine client the launcher reads from.
type DockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
}

// NewDockerClient connects to the engine configured in the environment.
func NewDockerClient() (*client.Client, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return dockerClient, nil
}

// Inspector reads container and image state of the compose project from the engine.
type Inspector struct {
	client  DockerAPI
	project string
}

var _ repository.ContainerRepository = (*Inspector)(nil)

// NewInspector returns an inspector for project.
func NewInspector(client DockerAPI, project string) *Inspector {
	return &Inspector{client: client, project: project}
}

// Containers lists every container of the project, running or not.
func (i *Inspector) Containers(ctx context.Context) ([]model.Container, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("label", fmt.Sprintf("%s=%s", labelProject, i.project))

	dockerContainers, err := i.client.ContainerList(ctx, container.ListOptions{All: true, Filters: filterArgs})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	containers := make([]model.Container, 0, len(dockerContainers))
	for _, dc := range dockerContainers {
		name := dc.ID
		if len(dc.Names) > 0 {
			name = strings.TrimPrefix(dc.Names[0], "/")
		}
		containers = append(containers, model.Container{
			ID:         dc.ID,
			Name:       name,
			Service:    dc.Labels[labelService],
			Image:      dc.Image,
			StatusCode: MapDockerStateToContainerStatus(string(dc.State)),
			Status:     dc.Status,
		})
	}
	sort.Slice(containers, func(a, b int) bool { return containers[a].Service < containers[b].Service })

	log.Debug("Compose project containers listed", "project", i.project, "containers", len(containers))
	return containers, nil
}

// LocalTags returns the tags of repository present in the local image store.
func (i *Inspector) LocalTags(ctx context.Context, repository string) ([]string, error) {
	images, err := i.client.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", repository)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images for %s: %w", repository, err)
	}

	var tags []string
	for _, img := range images {
		for _, ref := range img.RepoTags {
			repo, tag := SplitImageRef(ref)
			if repo == repository && tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}

// SplitImageRef splits an image reference into repository and tag. A colon
// that belongs to a registry port is not treated as a tag separator.
func SplitImageRef(ref string) (repository, tag string) {
	if at := strings.Index(ref, "@"); at >= 0 {
		ref = ref[:at]
	}
	i := strings.LastIndex(ref, ":")
	if i < 0 || strings.Contains(ref[i+1:], "/") {
		return ref, ""
	}
	return ref[:i], ref[i+1:]
}

// MapDockerStateToContainerStatus maps Docker container state to ContainerStatusCode
func MapDockerStateToContainerStatus(state string) model.ContainerStatusCode {
	switch strings.ToLower(state) {
	case "running":
		return model.ContainerStatusActive
	case "exited", "stopped", "created":
		return model.ContainerStatusStopped
	case "restarting":
		return model.ContainerStatusRestarting
	case "paused":
		return model.ContainerStatusIdle
	case "dead", "oomkilled", "removing":
		return model.ContainerStatusProblematic
	default:
		return model.ContainerStatusUnknown
	}
}
