// Package launcher defines the capability used by the executor to start a
// process and wait for its completion. Implementations live in sub-packages:
// local starts real OS processes, fake runs registered Go handlers.
package launcher

import (
	"context"
	"errors"
)

// ErrEmptyCommand is returned when a launch request carries no program.
var ErrEmptyCommand = errors.New("empty command")

// Spec describes a process to start.
type Spec struct {
	Command []string // program followed by its arguments
	WorkDir string   // current working directory of the process
}

// Result holds what a process left behind once it exited.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Process is a started process.
type Process interface {
	// PID returns the operating system process id.
	PID() int
	// Wait blocks until the process exits. The returned result is never nil;
	// err reports a problem collecting the exit status or output.
	Wait() (*Result, error)
}

// Launcher starts processes. Cancelling ctx terminates the process.
type Launcher interface {
	Launch(ctx context.Context, spec *Spec) (Process, error)
}
