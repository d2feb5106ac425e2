package model

import (
	"time"
)

// Event names published to listening UI surfaces.
const (
	EventFinished   = "finished"
	EventFailed     = "failed"
	EventStreamLogs = "stream-logs"
	EventState      = "state"
	EventReady      = "ready"
	EventSettings   = "settings"
)

// Event is a one-shot notification. Data is event specific: the command name for
// finished, a log line for stream-logs, the new state for state.
type Event struct {
	Name string    `json:"name"`
	Data any       `json:"data,omitempty"`
	Time time.Time `json:"time"`
}

// NewEvent stamps an event with the current time.
func NewEvent(name string, data any) Event {
	return Event{Name: name, Data: data, Time: time.Now()}
}

// StateChange is the payload of a state event. ShowLogs is set on the transition
// to starting when the user asked for the log view to open on start.
type StateChange struct {
	State    StackState `json:"state"`
	ShowLogs bool       `json:"show_logs,omitempty"`
}

// LogLine is the payload of a stream-logs event.
type LogLine struct {
	RunID  string `json:"run_id"`
	Stream string `json:"stream"`
	Line   string `json:"line"`
}
