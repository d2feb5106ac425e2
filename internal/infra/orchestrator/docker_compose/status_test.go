package docker_compose

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"

	"jasper-launcher/internal/domain/model"
)

type fakeDockerAPI struct {
	containers  []container.Summary
	images      []image.Summary
	err         error
	listOptions container.ListOptions
	imageOpts   image.ListOptions
}

func (f *fakeDockerAPI) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	f.listOptions = options
	return f.containers, f.err
}

func (f *fakeDockerAPI) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	f.imageOpts = options
	return f.images, f.err
}

func TestInspectorContainers(t *testing.T) {
	api := &fakeDockerAPI{containers: []container.Summary{
		{
			ID:     "b2",
			Names:  []string{"/jasper-server-1"},
			Image:  "ghcr.io/cjmalloy/jasper:v1.3",
			State:  "running",
			Status: "Up 3 minutes",
			Labels: map[string]string{labelProject: "jasper", labelService: "server"},
		},
		{
			ID:     "a1",
			Names:  []string{"/jasper-db-1"},
			Image:  "postgres:16",
			State:  "exited",
			Status: "Exited (0) 1 minute ago",
			Labels: map[string]string{labelProject: "jasper", labelService: "db"},
		},
	}}

	containers, err := NewInspector(api, "jasper").Containers(context.Background())
	if err != nil {
		t.Fatalf("Containers returned error: %v", err)
	}

	if !api.listOptions.All {
		t.Errorf("stopped containers must be listed too")
	}
	if got := api.listOptions.Filters.Get("label"); !reflect.DeepEqual(got, []string{"com.docker.compose.project=jasper"}) {
		t.Errorf("label filter = %v", got)
	}

	want := []model.Container{
		{ID: "a1", Name: "jasper-db-1", Service: "db", Image: "postgres:16", StatusCode: model.ContainerStatusStopped, Status: "Exited (0) 1 minute ago"},
		{ID: "b2", Name: "jasper-server-1", Service: "server", Image: "ghcr.io/cjmalloy/jasper:v1.3", StatusCode: model.ContainerStatusActive, Status: "Up 3 minutes"},
	}
	if !reflect.DeepEqual(containers, want) {
		t.Errorf("containers = %+v\nwant %+v", containers, want)
	}
}

func TestInspectorContainersError(t *testing.T) {
	boom := errors.New("daemon unreachable")
	_, err := NewInspector(&fakeDockerAPI{err: boom}, "jasper").Containers(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
}

func TestInspectorLocalTags(t *testing.T) {
	api := &fakeDockerAPI{images: []image.Summary{
		{RepoTags: []string{"ghcr.io/cjmalloy/jasper:v1.3", "ghcr.io/cjmalloy/jasper:latest"}},
		{RepoTags: []string{"ghcr.io/cjmalloy/jasper-ui:v1.3"}},
		{RepoTags: nil},
	}}

	tags, err := NewInspector(api, "jasper").LocalTags(context.Background(), "ghcr.io/cjmalloy/jasper")
	if err != nil {
		t.Fatalf("LocalTags returned error: %v", err)
	}
	if want := []string{"v1.3", "latest"}; !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
	if got := api.imageOpts.Filters.Get("reference"); !reflect.DeepEqual(got, []string{"ghcr.io/cjmalloy/jasper"}) {
		t.Errorf("reference filter = %v", got)
	}
}

func TestSplitImageRef(t *testing.T) {
	tests := []struct {
		ref, repo, tag string
	}{
		{"postgres:16", "postgres", "16"},
		{"postgres", "postgres", ""},
		{"localhost:5000/jasper", "localhost:5000/jasper", ""},
		{"localhost:5000/jasper:v1", "localhost:5000/jasper", "v1"},
		{"ghcr.io/cjmalloy/jasper:v1.3@sha256:abc", "ghcr.io/cjmalloy/jasper", "v1.3"},
	}
	for _, tt := range tests {
		repo, tag := SplitImageRef(tt.ref)
		if repo != tt.repo || tag != tt.tag {
			t.Errorf("SplitImageRef(%q) = %q, %q; want %q, %q", tt.ref, repo, tag, tt.repo, tt.tag)
		}
	}
}

func TestMapDockerStateToContainerStatus(t *testing.T) {
	tests := map[string]model.ContainerStatusCode{
		"running":    model.ContainerStatusActive,
		"RUNNING":    model.ContainerStatusActive,
		"exited":     model.ContainerStatusStopped,
		"created":    model.ContainerStatusStopped,
		"paused":     model.ContainerStatusIdle,
		"restarting": model.ContainerStatusRestarting,
		"dead":       model.ContainerStatusProblematic,
		"mystery":    model.ContainerStatusUnknown,
	}
	for state, want := range tests {
		if got := MapDockerStateToContainerStatus(state); got != want {
			t.Errorf("%s -> %d, want %d", state, got, want)
		}
	}
}
