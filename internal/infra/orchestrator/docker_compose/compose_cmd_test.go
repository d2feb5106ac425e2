package docker_compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"jasper-launcher/internal/domain/model"
)

const fakeDocker = `#!/bin/sh
echo "args: $*"
echo "key=$JASPER_SERVER_KEY"
if [ -n "$FAKE_STDERR" ]; then echo "$FAKE_STDERR" >&2; fi
if [ -n "$FAKE_SLEEP" ]; then exec sleep "$FAKE_SLEEP"; fi
exit ${FAKE_EXIT:-0}
`

type recordedLine struct {
	runID, stream, line string
}

type lineRecorder struct {
	mu    sync.Mutex
	lines []recordedLine
}

func (r *lineRecorder) handle(runID, stream, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, recordedLine{runID, stream, line})
}

func (r *lineRecorder) all() []recordedLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedLine(nil), r.lines...)
}

func newFakeRunner(t *testing.T, rec *lineRecorder) *Runner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake docker binary is a shell script")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "docker")
	if err := os.WriteFile(bin, []byte(fakeDocker), 0o755); err != nil {
		t.Fatalf("failed to write fake docker: %v", err)
	}
	var onLine LineHandler
	if rec != nil {
		onLine = rec.handle
	}
	return NewRunner(Options{
		Binary:      bin,
		ProjectName: "jasper",
		ComposeFile: filepath.Join(dir, "docker-compose.yaml"),
	}, onLine)
}

func TestArgs(t *testing.T) {
	r := NewRunner(Options{ProjectName: "jasper", ComposeFile: "/data/compose/docker-compose.yaml"}, nil)

	tests := []struct {
		name string
		inv  model.ComposeInvocation
		want []string
	}{
		{
			name: "up detaches",
			inv:  model.ComposeInvocation{Command: model.ComposeUp},
			want: []string{"compose", "-p", "jasper", "-f", "/data/compose/docker-compose.yaml", "up", "--detach"},
		},
		{
			name: "down with both tunnels",
			inv:  model.ComposeInvocation{Command: model.ComposeDown, Profiles: []string{model.ProfileCloudflare, model.ProfileNgrok}},
			want: []string{"compose", "-p", "jasper", "-f", "/data/compose/docker-compose.yaml", "--profile", "cf", "--profile", "ngrok", "down"},
		},
		{
			name: "pause",
			inv:  model.ComposeInvocation{Command: model.ComposePause, Profiles: []string{model.ProfileNgrok}},
			want: []string{"compose", "-p", "jasper", "-f", "/data/compose/docker-compose.yaml", "--profile", "ngrok", "pause"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Args(tt.inv); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunPassesEnvironmentAndStreamsOutput(t *testing.T) {
	rec := &lineRecorder{}
	r := newFakeRunner(t, rec)

	run, err := r.Run(context.Background(), model.ComposeInvocation{
		Command: model.ComposePull,
		Env:     model.Environment{{Name: "JASPER_SERVER_KEY", Value: "secret-key"}},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if run.ID == "" || run.Command != "pull" || !run.Succeeded() {
		t.Errorf("unexpected run: %+v", run)
	}

	lines := rec.all()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
	if !strings.HasSuffix(lines[0].line, " pull") || lines[0].stream != StreamStdout {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
	if lines[1].line != "key=secret-key" {
		t.Errorf("environment not passed: %+v", lines[1])
	}
	if lines[0].runID != run.ID {
		t.Errorf("lines not tagged with run ID")
	}
	if r.running() {
		t.Errorf("finished process is still tracked")
	}
}

func TestRunNonZeroExitCarriesStderr(t *testing.T) {
	rec := &lineRecorder{}
	r := newFakeRunner(t, rec)

	run, err := r.Run(context.Background(), model.ComposeInvocation{
		Command: model.ComposeUp,
		Env: model.Environment{
			{Name: "FAKE_EXIT", Value: "3"},
			{Name: "FAKE_STDERR", Value: "service \"server\" failed to build"},
		},
	})
	if !errors.Is(err, model.ErrProcessInvocation) {
		t.Fatalf("error = %v, want ErrProcessInvocation", err)
	}
	var invErr *model.ProcessInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error is not a ProcessInvocationError: %v", err)
	}
	if invErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", invErr.ExitCode)
	}
	if !strings.Contains(invErr.Stderr, `service "server" failed to build`) {
		t.Errorf("Stderr = %q", invErr.Stderr)
	}
	if run.ExitCode != 3 || run.Succeeded() {
		t.Errorf("unexpected run: %+v", run)
	}

	var sawStderr bool
	for _, l := range rec.all() {
		if l.stream == StreamStderr {
			sawStderr = true
		}
	}
	if !sawStderr {
		t.Errorf("stderr line was not streamed")
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := NewRunner(Options{
		Binary:      filepath.Join(t.TempDir(), "no-such-docker"),
		ComposeFile: filepath.Join(t.TempDir(), "docker-compose.yaml"),
	}, nil)

	_, err := r.Run(context.Background(), model.ComposeInvocation{Command: model.ComposeDown})
	var invErr *model.ProcessInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want ProcessInvocationError", err)
	}
	if invErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", invErr.ExitCode)
	}
}

func waitRunning(t *testing.T, r *Runner) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !r.running() {
		if time.Now().After(deadline) {
			t.Fatal("process never started")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestKillCurrent(t *testing.T) {
	r := newFakeRunner(t, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), model.ComposeInvocation{
			Command: model.ComposeUp,
			Env:     model.Environment{{Name: "FAKE_SLEEP", Value: "30"}},
		})
		errCh <- err
	}()
	waitRunning(t, r)

	r.KillCurrent()
	if r.running() {
		t.Errorf("killed process is still tracked")
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, model.ErrProcessInvocation) {
			t.Errorf("error = %v, want ErrProcessInvocation", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after kill")
	}

	// Nothing tracked: must return immediately.
	r.KillCurrent()
}

func TestRunCancelledContext(t *testing.T) {
	r := newFakeRunner(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, model.ComposeInvocation{
			Command: model.ComposeUp,
			Env:     model.Environment{{Name: "FAKE_SLEEP", Value: "30"}},
		})
		errCh <- err
	}()
	waitRunning(t, r)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
