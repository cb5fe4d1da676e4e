package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/cpulaunch/service/launcher"
)

// Handler simulates a process. It receives the launch request and returns what the
// process would have left behind. The context is cancelled when the process
// should be killed.
type Handler func(ctx context.Context, spec *launcher.Spec) *launcher.Result

// Launcher is a test implementation of launcher.Launcher running handlers in
// goroutines instead of spawning OS processes.
type Launcher struct {
	mu       sync.Mutex
	handler  Handler
	nextPID  int
	launched []*launcher.Spec
	failWith error
}

var _ launcher.Launcher = (*Launcher)(nil)

// New creates a fake launcher invoking handler for every launch.
func New(handler Handler) *Launcher {
	return &Launcher{handler: handler, nextPID: 1000}
}

// Succeed returns a handler that exits 0 with the given stdout.
func Succeed(stdout string) Handler {
	return func(context.Context, *launcher.Spec) *launcher.Result {
		return &launcher.Result{Stdout: []byte(stdout)}
	}
}

// FailLaunch makes every subsequent Launch return err.
func (l *Launcher) FailLaunch(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failWith = err
}

// Launched returns the specs seen so far, in launch order.
func (l *Launcher) Launched() []*launcher.Spec {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*launcher.Spec(nil), l.launched...)
}

// Count returns the number of launches.
func (l *Launcher) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.launched)
}

type process struct {
	pid    int
	done   chan struct{}
	result *launcher.Result
}

func (p *process) PID() int { return p.pid }

func (p *process) Wait() (*launcher.Result, error) {
	<-p.done
	return p.result, nil
}

// Launch implements launcher.Launcher.
func (l *Launcher) Launch(ctx context.Context, spec *launcher.Spec) (launcher.Process, error) {
	if len(spec.Command) == 0 {
		return nil, launcher.ErrEmptyCommand
	}
	l.mu.Lock()
	if l.failWith != nil {
		err := l.failWith
		l.mu.Unlock()
		return nil, fmt.Errorf("start %s: %w", spec.Command[0], err)
	}
	l.nextPID++
	proc := &process{pid: l.nextPID, done: make(chan struct{})}
	clone := &launcher.Spec{Command: append([]string(nil), spec.Command...), WorkDir: spec.WorkDir}
	l.launched = append(l.launched, clone)
	handler := l.handler
	l.mu.Unlock()

	go func() {
		defer close(proc.done)
		result := handler(ctx, clone)
		if result == nil {
			result = &launcher.Result{}
		}
		proc.result = result
	}()
	return proc, nil
}
