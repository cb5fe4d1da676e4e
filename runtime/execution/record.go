package execution

import (
	"strings"
	"time"
)

// Record describes one finished iteration. It is logged and then discarded.
type Record struct {
	Iteration int
	PID       int
	ExitCode  int
	Stdout    string
	Stderr    string
	Started   time.Time
	Elapsed   time.Duration
}

// NewRecord builds a record from raw captured output.
func NewRecord(iteration, pid, exitCode int, stdout, stderr []byte) *Record {
	return &Record{
		Iteration: iteration,
		PID:       pid,
		ExitCode:  exitCode,
		Stdout:    strings.TrimSpace(string(stdout)),
		Stderr:    strings.TrimSpace(string(stderr)),
	}
}

// Succeeded reports whether the process exited 0.
func (r *Record) Succeeded() bool {
	return r.ExitCode == 0
}
