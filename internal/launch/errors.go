package launch

import (
	"errors"
	"fmt"
)

// ErrNoTerminal is returned when no terminal emulator can be found.
var ErrNoTerminal = errors.New("no terminal emulator available")

// LaunchError reports a command that could not be started or exited nonzero.
type LaunchError struct {
	Label   string
	Command string
	// ExitCode is the process status, or -1 when it never ran to completion.
	ExitCode int
	Err      error
}

func (e *LaunchError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s: exited with status %d", e.Label, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Label, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
