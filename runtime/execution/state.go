package execution

import (
	"fmt"

	"github.com/viant/cpulaunch/policy"
)

// UnitState represents the current state of an execution unit
type UnitState string

const (
	UnitStatePending   UnitState = "pending"
	UnitStateRunning   UnitState = "running"
	UnitStateSucceeded UnitState = "succeeded" //last iteration exited 0, more may follow
	UnitStateFailed    UnitState = "failed"
	UnitStateDone      UnitState = "done"
	UnitStateCancelled UnitState = "cancelled"
)

// IsTerminal reports whether no further iteration can start.
func (s UnitState) IsTerminal() bool {
	switch s {
	case UnitStateFailed, UnitStateDone, UnitStateCancelled:
		return true
	}
	return false
}

// Loop drives the iterations of a single unit. It is owned by one worker and
// is not safe for concurrent use.
type Loop struct {
	Repeat    int
	Completed int
	State     UnitState
}

// NewLoop creates a pending loop for the given repeat budget.
func NewLoop(repeat int) *Loop {
	return &Loop{Repeat: repeat, State: UnitStatePending}
}

// Next moves the loop into running and returns true when another iteration
// may start; otherwise it settles the loop in a terminal state.
func (l *Loop) Next() bool {
	if l.State.IsTerminal() {
		return false
	}
	if l.State == UnitStateRunning {
		panic(fmt.Sprintf("iteration %d still running", l.Iteration()))
	}
	if !policy.ShouldContinue(l.Repeat, l.Completed) {
		l.State = UnitStateDone
		return false
	}
	l.State = UnitStateRunning
	return true
}

// Iteration returns the 1-based number of the current (or next) iteration.
func (l *Loop) Iteration() int {
	return l.Completed + 1
}

// Succeed records a zero exit of the running iteration.
func (l *Loop) Succeed() {
	l.Completed++
	l.State = UnitStateSucceeded
}

// Fail records a failed iteration; the loop stops for good.
func (l *Loop) Fail() {
	l.State = UnitStateFailed
}

// Cancel stops the loop before the next iteration.
func (l *Loop) Cancel() {
	if !l.State.IsTerminal() {
		l.State = UnitStateCancelled
	}
}
