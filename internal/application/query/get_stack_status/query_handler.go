package get_stack_status

import (
	"context"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/log"
)

// StateProvider reports the controller's lifecycle state.
type StateProvider interface {
	State() model.StackState
}

// GetStackStatusQueryHandler handles the GetStackStatusQuery
type GetStackStatusQueryHandler struct {
	state      StateProvider
	containers repository.ContainerRepository
	project    string
}

// Handle executes the GetStackStatusQuery. An unreachable Docker daemon is
// reported in the result rather than failing the query.
func (h *GetStackStatusQueryHandler) Handle(ctx context.Context, _ GetStackStatusQuery) (model.StackStatus, error) {
	status := model.StackStatus{
		Project:    h.project,
		State:      h.state.State(),
		Containers: []model.Container{},
	}
	if h.containers == nil {
		status.DockerError = "docker client unavailable"
		return status, nil
	}

	containers, err := h.containers.Containers(ctx)
	if err != nil {
		log.Warn("Error getting containers status", "error", err)
		status.DockerError = err.Error()
		return status, nil
	}
	status.Containers = containers

	log.Debug("Retrieved stack status", "state", status.State.String(), "containers_count", len(containers))
	return status, nil
}

// NewGetStackStatusQueryHandler creates a new GetStackStatusQueryHandler
func NewGetStackStatusQueryHandler(state StateProvider, containers repository.ContainerRepository, project string) *GetStackStatusQueryHandler {
	return &GetStackStatusQueryHandler{
		state:      state,
		containers: containers,
		project:    project,
	}
}
