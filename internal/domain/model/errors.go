package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPathUnavailable is returned when the per-user data directory cannot be resolved or created.
	ErrPathUnavailable = errors.New("application data path unavailable")
	// ErrCorruptRecord is returned when settings.json exists but does not parse.
	ErrCorruptRecord = errors.New("settings record is corrupt")
	// ErrPersistFailure is returned when settings.json cannot be written.
	ErrPersistFailure = errors.New("failed to persist settings")
	// ErrKeyDecode is returned when a signing key is not valid base64.
	ErrKeyDecode = errors.New("signing key is not valid base64")
	// ErrUnknownCommand is returned for orchestration command names outside the supported set.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrProcessInvocation matches every *ProcessInvocationError.
	ErrProcessInvocation = errors.New("process invocation failed")

	ErrUnknownField = errors.New("unknown settings field")
	ErrPatchType    = errors.New("settings patch type mismatch")
)

// ProcessInvocationError describes a failed run of the external orchestration tool.
// Stderr holds whatever the process wrote to its standard error.
type ProcessInvocationError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessInvocationError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, detail)
	}
	return fmt.Sprintf("%s failed: %s", e.Command, detail)
}

func (e *ProcessInvocationError) Unwrap() error {
	return e.Err
}

func (e *ProcessInvocationError) Is(target error) bool {
	return target == ErrProcessInvocation
}
