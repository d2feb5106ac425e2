package model

import (
	"fmt"
	"time"
)

// StackState is the lifecycle state of the compose stack as seen by the launcher.
type StackState int8

const (
	StackStopped StackState = iota
	StackStarting
	StackRunning
	StackStopping
)

func (s StackState) String() string {
	switch s {
	case StackStopped:
		return "stopped"
	case StackStarting:
		return "starting"
	case StackRunning:
		return "running"
	case StackStopping:
		return "stopping"
	default:
		return fmt.Sprintf("state(%d)", int8(s))
	}
}

func (s StackState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ComposeCommand is an orchestration command accepted from the settings UI.
type ComposeCommand string

const (
	ComposeRestart ComposeCommand = "restart"
	ComposePull    ComposeCommand = "pull"
	ComposeDown    ComposeCommand = "down"
	ComposeUp      ComposeCommand = "up"
	ComposePause   ComposeCommand = "pause"
	ComposeUnpause ComposeCommand = "unpause"
)

// ComposeCommands lists every supported command.
var ComposeCommands = []ComposeCommand{
	ComposeRestart, ComposePull, ComposeDown, ComposeUp, ComposePause, ComposeUnpause,
}

// ParseComposeCommand validates a command name.
func ParseComposeCommand(name string) (ComposeCommand, error) {
	for _, c := range ComposeCommands {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// ComposeInvocation is a single run of the orchestration tool.
type ComposeInvocation struct {
	Command  ComposeCommand
	Env      Environment
	Profiles []string
}

type ContainerStatusCode int8

const (
	ContainerStatusUnknown     ContainerStatusCode = 0
	ContainerStatusActive      ContainerStatusCode = 1
	ContainerStatusIdle        ContainerStatusCode = 2
	ContainerStatusRestarting  ContainerStatusCode = 3
	ContainerStatusProblematic ContainerStatusCode = 4
	ContainerStatusStopped     ContainerStatusCode = 5
)

type Container struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Service    string              `json:"service"`
	Image      string              `json:"image"`
	StatusCode ContainerStatusCode `json:"status_code"`
	Status     string              `json:"status"`
}

// StackStatus combines the controller state with what Docker reports for the project.
type StackStatus struct {
	Project    string      `json:"project"`
	State      StackState  `json:"state"`
	Containers []Container `json:"containers"`
	// DockerError is set when the daemon could not be queried; State is still valid.
	DockerError string `json:"docker_error,omitempty"`
}

// ImageTags lists selectable version tags per service.
type ImageTags struct {
	Server   []string `json:"server"`
	Client   []string `json:"client"`
	Database []string `json:"database"`
	Ssh      []string `json:"ssh"`
}

// CommandRun is one invocation of the orchestration tool.
type CommandRun struct {
	ID        string        `json:"id"`
	Command   string        `json:"command"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	ExitCode  int           `json:"exit_code"`
	Error     string        `json:"error,omitempty"`
}

// Succeeded reports whether the run completed without error.
func (r CommandRun) Succeeded() bool {
	return r.Error == ""
}
