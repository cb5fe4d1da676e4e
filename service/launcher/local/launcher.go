package local

import (
	"bytes"
	"context"
	"errors"
	osexec "os/exec"
	"syscall"

	"github.com/viant/cpulaunch/service/launcher"
	"golang.org/x/sys/unix"
)

// Launcher starts plain OS processes, each in its own process group so that
// cancellation reaches every descendant.
type Launcher struct {
	signal unix.Signal
}

var _ launcher.Launcher = (*Launcher)(nil)

// New creates a launcher that sends SIGKILL to a process group on cancel.
func New() *Launcher {
	return &Launcher{signal: unix.SIGKILL}
}

type process struct {
	cmd    *osexec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// Launch starts spec.Command with its working directory set to spec.WorkDir.
func (l *Launcher) Launch(ctx context.Context, spec *launcher.Spec) (launcher.Process, error) {
	if len(spec.Command) == 0 {
		return nil, launcher.ErrEmptyCommand
	}
	p := &process{}
	cmd := osexec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.WorkDir
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		pid := cmd.Process.Pid
		if pid > 0 {
			_ = unix.Kill(-pid, l.signal)
		}
		return cmd.Process.Signal(l.signal)
	}
	p.cmd = cmd
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *process) PID() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *process) Wait() (*launcher.Result, error) {
	err := p.cmd.Wait()
	result := &launcher.Result{Stdout: p.stdout.Bytes(), Stderr: p.stderr.Bytes()}
	if err == nil {
		return result, nil
	}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode == -1 {
			// terminated by a signal
			result.ExitCode = 128 + signalOf(exitErr)
		}
		return result, nil
	}
	result.ExitCode = -1
	if state := p.cmd.ProcessState; state != nil {
		result.ExitCode = state.ExitCode()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// exited on its own while being cancelled
			return result, nil
		}
	}
	return result, err
}

func signalOf(exitErr *osexec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return int(status.Signal())
	}
	return 0
}
