package query

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"jasper-launcher/internal/application/query/fetch_settings"
	"jasper-launcher/internal/application/query/get_history"
	"jasper-launcher/internal/application/query/get_image_tags"
	"jasper-launcher/internal/application/query/get_stack_status"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/internal/infra/settings"
	"jasper-launcher/pkg/cqrs"
)

type fixedState model.StackState

func (s fixedState) State() model.StackState { return model.StackState(s) }

type fakeContainers struct {
	containers []model.Container
	tags       map[string][]string
	err        error
}

func (f *fakeContainers) Containers(context.Context) ([]model.Container, error) {
	return f.containers, f.err
}

func (f *fakeContainers) LocalTags(_ context.Context, repository string) ([]string, error) {
	return f.tags[repository], f.err
}

type fakeHistory struct {
	runs  []model.CommandRun
	limit int
}

func (f *fakeHistory) Record(context.Context, model.CommandRun) error { return nil }

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]model.CommandRun, error) {
	f.limit = limit
	return f.runs, nil
}

var repositories = get_image_tags.Repositories{
	Server:   "ghcr.io/cjmalloy/jasper",
	Client:   "ghcr.io/cjmalloy/jasper-ui",
	Database: "postgres",
	Ssh:      "ghcr.io/cjmalloy/jasper-shell",
}

func newBus(t *testing.T, containers repository.ContainerRepository, history repository.HistoryRepository) (*cqrs.DefaultQueryBus, *settings.Store) {
	t.Helper()
	store := settings.NewStore(t.TempDir())
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	bus := cqrs.NewQueryBus()
	if err := RegisterQueryHandlers(bus, store, fixedState(model.StackRunning), containers, history, "jasper", repositories); err != nil {
		t.Fatalf("RegisterQueryHandlers failed: %v", err)
	}
	return bus, store
}

func TestFetchSettings(t *testing.T) {
	bus, store := newBus(t, nil, nil)

	result, err := bus.Dispatch(context.Background(), fetch_settings.FetchSettingsQuery{})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if got := result.(model.Settings); got != store.Get() {
		t.Errorf("got %+v, want the live record", got)
	}
}

func TestGetImageTags(t *testing.T) {
	testCases := []struct {
		name       string
		containers repository.ContainerRepository
		want       model.ImageTags
	}{
		{
			name:       "docker unavailable",
			containers: nil,
			want:       get_image_tags.KnownTags(),
		},
		{
			name:       "docker error",
			containers: &fakeContainers{err: errors.New("daemon down")},
			want:       get_image_tags.KnownTags(),
		},
		{
			name: "local tags appended",
			containers: &fakeContainers{tags: map[string][]string{
				"ghcr.io/cjmalloy/jasper": {"v1.3", "v1.4.0", "v1.2.9", "v1.4.0"},
				"postgres":                {"16", "18"},
			}},
			want: model.ImageTags{
				Server:   []string{"latest", "v1.3", "v1", "v1.2.9", "v1.4.0"},
				Client:   []string{"latest", "v1.3", "v1"},
				Database: []string{"11", "12", "13", "14", "15", "16", "17", "18"},
				Ssh:      []string{"latest", "v1.1", "v1"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bus, _ := newBus(t, tc.containers, nil)
			result, err := bus.Dispatch(context.Background(), get_image_tags.GetImageTagsQuery{})
			if err != nil {
				t.Fatalf("Dispatch failed: %v", err)
			}
			if got := result.(model.ImageTags); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %+v\nwant %+v", got, tc.want)
			}
		})
	}
}

func TestKnownTagsAreIndependentCopies(t *testing.T) {
	a := get_image_tags.KnownTags()
	a.Server[0] = "changed"
	if get_image_tags.KnownTags().Server[0] != "latest" {
		t.Error("KnownTags shares its backing arrays")
	}
}

func TestGetStackStatus(t *testing.T) {
	containers := []model.Container{{ID: "1", Service: "db", StatusCode: model.ContainerStatusActive}}

	t.Run("containers listed", func(t *testing.T) {
		bus, _ := newBus(t, &fakeContainers{containers: containers}, nil)
		result, err := bus.Dispatch(context.Background(), get_stack_status.GetStackStatusQuery{})
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		status := result.(model.StackStatus)
		if status.Project != "jasper" || status.State != model.StackRunning || !reflect.DeepEqual(status.Containers, containers) || status.DockerError != "" {
			t.Errorf("unexpected status %+v", status)
		}
	})

	t.Run("docker error reported", func(t *testing.T) {
		bus, _ := newBus(t, &fakeContainers{err: errors.New("daemon down")}, nil)
		result, err := bus.Dispatch(context.Background(), get_stack_status.GetStackStatusQuery{})
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		status := result.(model.StackStatus)
		if status.DockerError != "daemon down" || status.State != model.StackRunning || status.Containers == nil {
			t.Errorf("unexpected status %+v", status)
		}
	})
}

func TestGetHistory(t *testing.T) {
	runs := []model.CommandRun{{ID: "b", Command: "down", StartedAt: time.Now()}, {ID: "a", Command: "up"}}
	history := &fakeHistory{runs: runs}
	bus, _ := newBus(t, nil, history)

	result, err := bus.Dispatch(context.Background(), get_history.GetHistoryQuery{Limit: 5})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if got := result.([]model.CommandRun); !reflect.DeepEqual(got, runs) {
		t.Errorf("got %+v", got)
	}
	if history.limit != 5 {
		t.Errorf("limit = %d, want 5", history.limit)
	}

	empty, _ := newBus(t, nil, nil)
	result, err = empty.Dispatch(context.Background(), get_history.GetHistoryQuery{})
	if err != nil || len(result.([]model.CommandRun)) != 0 {
		t.Errorf("without a store history should be empty, got %v %v", result, err)
	}
}
