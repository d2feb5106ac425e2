package stack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"jasper-launcher/internal/application/notify"
	"jasper-launcher/internal/domain/model"
	"jasper-launcher/internal/domain/repository"
	"jasper-launcher/pkg/log"
)

// SettingsSource hands out snapshots of the live settings record.
type SettingsSource interface {
	Get() model.Settings
}

type KeyIssuer interface {
	IssueKey() (string, error)
}

type EnvMaterializer interface {
	Materialize(s model.Settings, key string) (model.Environment, error)
}

// ReadinessWaiter blocks until every URL answers 200.
type ReadinessWaiter interface {
	WaitAll(ctx context.Context, urls ...string) error
}

// Observer receives command outcomes and state transitions for metrics.
type Observer interface {
	ObserveCommand(run model.CommandRun)
	SetStackState(state model.StackState)
}

// StateListener is called after every state transition.
type StateListener func(state model.StackState)

// Controller drives the compose stack. Every invocation gets a freshly issued
// session key and environment built from the current settings snapshot.
type Controller struct {
	settings     SettingsSource
	issuer       KeyIssuer
	materializer EnvMaterializer
	runner       repository.RunnerRepository
	publisher    notify.Publisher

	readiness ReadinessWaiter
	history   repository.HistoryRepository
	observer  Observer
	listeners []StateListener

	mu    sync.RWMutex
	state model.StackState
}

// NewController wires the mandatory collaborators. Optional ones are attached
// with the With* methods before the controller is used.
func NewController(settings SettingsSource, issuer KeyIssuer, materializer EnvMaterializer, runner repository.RunnerRepository, publisher notify.Publisher) *Controller {
	return &Controller{
		settings:     settings,
		issuer:       issuer,
		materializer: materializer,
		runner:       runner,
		publisher:    publisher,
		state:        model.StackStopped,
	}
}

func (c *Controller) WithReadiness(r ReadinessWaiter) *Controller {
	c.readiness = r
	return c
}

func (c *Controller) WithHistory(h repository.HistoryRepository) *Controller {
	c.history = h
	return c
}

func (c *Controller) WithObserver(o Observer) *Controller {
	c.observer = o
	return c
}

// OnStateChange registers fn to be called on every transition.
func (c *Controller) OnStateChange(fn StateListener) *Controller {
	c.listeners = append(c.listeners, fn)
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() model.StackState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Execute runs a named orchestration command. restart stops and starts the
// stack; the other commands are forwarded to compose as is. A finished event
// carrying the command name follows success, a failed event carrying the error
// text follows failure.
func (c *Controller) Execute(ctx context.Context, name string) error {
	command, err := model.ParseComposeCommand(name)
	if err != nil {
		c.publish(model.EventFailed, err.Error())
		return err
	}

	switch command {
	case model.ComposeRestart:
		err = c.Restart(ctx)
	case model.ComposeUp:
		err = c.Start(ctx)
	case model.ComposeDown:
		err = c.Stop(ctx)
	default:
		_, err = c.invoke(ctx, command)
	}

	if err != nil {
		c.publish(model.EventFailed, err.Error())
		return err
	}
	c.publish(model.EventFinished, string(command))
	return nil
}

// Restart stops the stack and starts it again with a new session key.
func (c *Controller) Restart(ctx context.Context) error {
	if err := c.Stop(ctx); err != nil {
		return err
	}
	return c.Start(ctx)
}

// Start brings the stack up in the background and, when a readiness waiter is
// attached, waits for the client and server to answer.
func (c *Controller) Start(ctx context.Context) error {
	snapshot := c.settings.Get()
	c.setState(model.StackStarting, snapshot.ShowLogsOnStart)

	if err := ensureDirs(snapshot.DataDir, snapshot.StorageDir); err != nil {
		c.setState(model.StackStopped, false)
		return err
	}
	if _, err := c.invokeWith(ctx, model.ComposeUp, snapshot); err != nil {
		c.setState(model.StackStopped, false)
		return err
	}

	if c.readiness != nil {
		if err := c.readiness.WaitAll(ctx, snapshot.ClientURL(), snapshot.ServerHealthURL()); err != nil {
			// Containers are up; only the probe gave up.
			log.Warn("Stack did not become ready", "error", err)
			c.setState(model.StackRunning, false)
			return fmt.Errorf("waiting for stack readiness: %w", err)
		}
		c.publish(model.EventReady, snapshot.ClientURL())
	}
	c.setState(model.StackRunning, false)
	return nil
}

// Stop kills whatever compose process is still running and takes the stack down.
func (c *Controller) Stop(ctx context.Context) error {
	c.setState(model.StackStopping, false)
	c.runner.KillCurrent()

	_, err := c.invoke(ctx, model.ComposeDown)
	// The stack state is unknown after a failed down; report it as stopped so a
	// later start is not refused.
	c.setState(model.StackStopped, false)
	return err
}

// Task is a started background operation.
type Task struct {
	done chan error
}

// Done yields the operation's result once and is then closed.
func (t *Task) Done() <-chan error {
	return t.done
}

// StartAsync runs Start on its own goroutine. Cancelling ctx kills the running
// compose process.
func (c *Controller) StartAsync(ctx context.Context) *Task {
	task := &Task{done: make(chan error, 1)}
	go func() {
		defer close(task.done)
		err := c.Start(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Failed to start stack", "error", err)
			c.publish(model.EventFailed, err.Error())
		}
		task.done <- err
	}()
	return task
}

func (c *Controller) invoke(ctx context.Context, command model.ComposeCommand) (model.CommandRun, error) {
	return c.invokeWith(ctx, command, c.settings.Get())
}

func (c *Controller) invokeWith(ctx context.Context, command model.ComposeCommand, snapshot model.Settings) (model.CommandRun, error) {
	key, err := c.issuer.IssueKey()
	if err != nil {
		return model.CommandRun{}, fmt.Errorf("issuing session key: %w", err)
	}
	env, err := c.materializer.Materialize(snapshot, key)
	if err != nil {
		return model.CommandRun{}, fmt.Errorf("materializing environment: %w", err)
	}
	log.Debug("Compose environment materialized", "command", string(command), "vars", env.Names())

	run, err := c.runner.Run(ctx, model.ComposeInvocation{
		Command:  command,
		Env:      env,
		Profiles: snapshot.Profiles(),
	})
	c.record(run)
	return run, err
}

func (c *Controller) record(run model.CommandRun) {
	if run.ID == "" {
		return
	}
	if c.observer != nil {
		c.observer.ObserveCommand(run)
	}
	if c.history != nil {
		// Recorded even when the caller's context is gone.
		if err := c.history.Record(context.Background(), run); err != nil {
			log.Warn("Failed to record command history", "run_id", run.ID, "error", err)
		}
	}
}

func (c *Controller) setState(state model.StackState, showLogs bool) {
	c.mu.Lock()
	previous := c.state
	c.state = state
	c.mu.Unlock()

	if previous == state {
		return
	}
	log.Info("Stack state changed", "from", previous.String(), "to", state.String())
	if c.observer != nil {
		c.observer.SetStackState(state)
	}
	for _, fn := range c.listeners {
		fn(state)
	}
	c.publish(model.EventState, model.StateChange{State: state, ShowLogs: showLogs})
}

func (c *Controller) publish(name string, data any) {
	if c.publisher != nil {
		c.publisher.Publish(model.NewEvent(name, data))
	}
}

// StreamLogs returns a line handler that forwards compose output as
// stream-logs events.
func StreamLogs(publisher notify.Publisher) func(runID, stream, line string) {
	return func(runID, stream, line string) {
		publisher.Publish(model.NewEvent(model.EventStreamLogs, model.LogLine{RunID: runID, Stream: stream, Line: line}))
	}
}

func ensureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
