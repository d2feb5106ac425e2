package docker_compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/alessio/shellescape"
	"github.com/google/uuid"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/log"
)

const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"

	// Output copying stops this long after the process exits, even if a
	// compose plugin child still holds the pipes.
	waitDelay = 5 * time.Second
)

// Options describe the compose project every invocation targets.
type Options struct {
	// Binary is the docker CLI, looked up in PATH when not absolute.
	Binary      string
	ProjectName string
	ComposeFile string
}

// LineHandler receives every line the compose process writes, tagged with the
// run ID and the stream it came from.
type LineHandler func(runID, stream, line string)

// Runner executes `docker compose` for one project. It keeps a handle on at most
// one child process so a stop request can kill whatever is still running.
type Runner struct {
	opts   Options
	onLine LineHandler

	mu      sync.Mutex
	current *exec.Cmd
	done    chan struct{}
}

var _ repository.RunnerRepository = (*Runner)(nil)

// NewRunner creates a runner. onLine may be nil.
func NewRunner(opts Options, onLine LineHandler) *Runner {
	if opts.Binary == "" {
		opts.Binary = "docker"
	}
	return &Runner{opts: opts, onLine: onLine}
}

// Args builds the docker CLI arguments for inv.
func (r *Runner) Args(inv model.ComposeInvocation) []string {
	args := []string{"compose"}
	if r.opts.ProjectName != "" {
		args = append(args, "-p", r.opts.ProjectName)
	}
	args = append(args, "-f", r.opts.ComposeFile)
	for _, p := range inv.Profiles {
		args = append(args, "--profile", p)
	}
	args = append(args, string(inv.Command))
	if inv.Command == model.ComposeUp {
		args = append(args, "--detach")
	}
	return args
}

// Run executes inv and blocks until the process exits. Cancelling ctx kills the
// process. A missing binary or a non-zero exit is returned as a
// *model.ProcessInvocationError carrying the captured standard error.
func (r *Runner) Run(ctx context.Context, inv model.ComposeInvocation) (model.CommandRun, error) {
	run := model.CommandRun{
		ID:        uuid.NewString(),
		Command:   string(inv.Command),
		StartedAt: time.Now(),
	}
	args := r.Args(inv)

	cmd := exec.CommandContext(ctx, r.opts.Binary, args...)
	cmd.Env = append(os.Environ(), inv.Env.Pairs()...)
	if r.opts.ComposeFile != "" {
		cmd.Dir = filepath.Dir(r.opts.ComposeFile)
	}

	var stderrBuf bytes.Buffer
	stdout := newLineWriter(func(line string) { r.emit(run.ID, StreamStdout, line) })
	stderr := newLineWriter(func(line string) {
		stderrBuf.WriteString(line)
		stderrBuf.WriteByte('\n')
		r.emit(run.ID, StreamStderr, line)
	})
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	log.Debug("Running docker compose", "run_id", run.ID, "command", shellescape.QuoteCommand(append([]string{r.opts.Binary}, args...)))
	if err := cmd.Start(); err != nil {
		return r.fail(run, args, -1, "", err)
	}
	done := r.track(cmd)

	err := cmd.Wait()
	stdout.Flush()
	stderr.Flush()
	r.untrack(cmd, done)

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return r.fail(run, args, exitCode, stderrBuf.String(), err)
	}

	run.Duration = time.Since(run.StartedAt)
	log.Info("docker compose finished", "run_id", run.ID, "command", run.Command, "duration", run.Duration)
	return run, nil
}

// KillCurrent kills the tracked child process, if any, and waits for it to be reaped.
func (r *Runner) KillCurrent() {
	r.mu.Lock()
	cmd, done := r.current, r.done
	r.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}
	log.Info("Killing running docker compose process", "pid", cmd.Process.Pid)
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		log.Warn("Failed to kill docker compose process", "error", err)
	}
	<-done
}

// running reports whether a child process is currently tracked.
func (r *Runner) running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

func (r *Runner) track(cmd *exec.Cmd) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = cmd
	r.done = make(chan struct{})
	return r.done
}

func (r *Runner) untrack(cmd *exec.Cmd, done chan struct{}) {
	r.mu.Lock()
	if r.current == cmd {
		r.current = nil
		r.done = nil
	}
	r.mu.Unlock()
	close(done)
}

func (r *Runner) emit(runID, stream, line string) {
	if r.onLine != nil {
		r.onLine(runID, stream, line)
	}
}

func (r *Runner) fail(run model.CommandRun, args []string, exitCode int, stderr string, err error) (model.CommandRun, error) {
	invErr := &model.ProcessInvocationError{
		Command:  r.opts.Binary,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
		Err:      err,
	}
	run.Duration = time.Since(run.StartedAt)
	run.ExitCode = exitCode
	run.Error = invErr.Error()
	log.Error("docker compose command failed", "run_id", run.ID, "command", run.Command, "exit_code", exitCode, "error", invErr)
	return run, fmt.Errorf("docker compose %s: %w", run.Command, invErr)
}
