package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/viant/cpulaunch/internal/clock"
	"github.com/viant/cpulaunch/internal/idgen"
	"github.com/viant/cpulaunch/policy"
	"github.com/viant/cpulaunch/progress"
	"github.com/viant/cpulaunch/runtime/execution"
	"github.com/viant/cpulaunch/service/launcher"
	"github.com/viant/cpulaunch/service/launcher/local"
	"github.com/viant/cpulaunch/service/metrics"
	"github.com/viant/cpulaunch/service/sink"
	"github.com/viant/cpulaunch/tracing"
)

// Listener is invoked once an iteration's process has exited and been logged.
type Listener func(unit *execution.Unit, record *execution.Record)

// Config controls how command lines are built.
type Config struct {
	// Shell runs multi-line payloads as "<Shell> -c <payload> args...".
	Shell string
	// Affinity is the CPU pinning invocation; the cpuset is appended to it.
	// Empty disables pinning.
	Affinity []string
}

// DefaultConfig returns bash and taskset.
func DefaultConfig() Config {
	return Config{Shell: "bash", Affinity: []string{"taskset", "-c"}}
}

// Service runs execution units.
type Service interface {
	// Run iterates unit until its repeat budget is exhausted, an iteration
	// fails or ctx is cancelled.
	Run(ctx context.Context, unit *execution.Unit) error
	// Command returns the full command line of one iteration of unit.
	Command(unit *execution.Unit) []string
}

type service struct {
	config   Config
	launcher launcher.Launcher
	sink     *sink.Sink
	metrics  *metrics.Metrics
	listener Listener
}

// Command builds the affinity-pinned command vector. A payload containing a
// line break is run through the shell with args as positional parameters;
// anything else is the program name itself.
func (s *service) Command(unit *execution.Unit) []string {
	return BuildCommand(unit, s.config)
}

// BuildCommand builds the command vector of unit under config.
func BuildCommand(unit *execution.Unit, config Config) []string {
	var base []string
	if unit.IsScript() {
		base = append([]string{config.Shell, "-c", unit.Command}, unit.Args...)
	} else {
		base = append([]string{unit.Command}, unit.Args...)
	}
	if len(config.Affinity) == 0 {
		return base
	}
	command := make([]string, 0, len(config.Affinity)+1+len(base))
	command = append(command, config.Affinity...)
	command = append(command, unit.CPUSet)
	return append(command, base...)
}

// Run implements Service.
func (s *service) Run(ctx context.Context, unit *execution.Unit) (err error) {
	ctx, span := tracing.StartSpan(ctx, "unit")
	span.WithAttributes(map[string]string{"unit": unit.ID, "cpuset": unit.CPUSet, "cwd": unit.WorkDir})
	defer func() { tracing.EndSpan(span, err) }()

	// launches outlive a sibling failure unless the policy kills in-flight work
	launchCtx := ctx
	if !policy.FromContext(ctx).KillsInFlight() {
		launchCtx = context.WithoutCancel(ctx)
	}

	logger := s.sink.With("unit", unit.ID, "cpuset", unit.CPUSet, "cwd", unit.WorkDir)
	if tracker, ok := progress.FromContext(ctx); ok {
		logger = log.With(logger, "run", idgen.Short(tracker.RunID))
	}
	loop := execution.NewLoop(unit.Repeat)
	for {
		if ctx.Err() != nil {
			loop.Cancel()
			err = fmt.Errorf("unit %s cancelled: %w", unit.ID, ctx.Err())
			break
		}
		if !loop.Next() {
			break
		}
		if err = s.iterate(ctx, launchCtx, unit, loop.Iteration(), logger); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				loop.Cancel()
			} else {
				loop.Fail()
			}
			break
		}
		loop.Succeed()
	}
	_ = level.Info(logger).Log("msg", "unit finished", "state", loop.State, "iterations", loop.Completed)
	return err
}

func (s *service) iterate(ctx, launchCtx context.Context, unit *execution.Unit, iteration int, logger log.Logger) (err error) {
	_, span := tracing.StartSpan(ctx, "iteration")
	span.WithInt("iteration", iteration)
	defer func() { tracing.EndSpan(span, err) }()

	command := s.Command(unit)
	commandLine := strings.Join(command, " ")
	started := clock.Now()
	proc, err := s.launcher.Launch(launchCtx, &launcher.Spec{Command: command, WorkDir: unit.WorkDir})
	if err != nil {
		if launchCtx.Err() != nil {
			return launchCtx.Err()
		}
		s.metrics.ObserveIteration(unit.TaskIndex, unit.CPUSet, clock.Since(started), true)
		progress.UpdateCtx(ctx, progress.Delta{Iterations: 1})
		_ = level.Error(logger).Log("iteration", iteration, "pid", 0, "command", commandLine, "msg", "failed to launch process", "err", err)
		return fmt.Errorf("%w: unit %s iteration %d: %v", ErrLaunch, unit.ID, iteration, err)
	}

	pid := proc.PID()
	span.WithInt("pid", pid)
	logger = log.With(logger, "iteration", iteration, "pid", pid)
	_ = level.Info(logger).Log("msg", "process started", "command", commandLine)

	result, waitErr := proc.Wait()
	record := execution.NewRecord(iteration, pid, result.ExitCode, result.Stdout, result.Stderr)
	record.Started = started
	record.Elapsed = clock.Since(started)
	if waitErr != nil {
		_ = level.Warn(logger).Log("msg", "failed to capture process output", "err", waitErr)
		record.Stdout, record.Stderr = "", ""
	}
	_ = level.Info(logger).Log("stdout", record.Stdout)
	_ = level.Info(logger).Log("stderr", record.Stderr)

	if !record.Succeeded() && launchCtx.Err() != nil {
		_ = level.Warn(logger).Log("msg", "process terminated by cancellation", "exit_code", record.ExitCode)
		return launchCtx.Err()
	}

	s.metrics.ObserveIteration(unit.TaskIndex, unit.CPUSet, record.Elapsed, !record.Succeeded())
	progress.UpdateCtx(ctx, progress.Delta{Iterations: 1})
	if s.listener != nil {
		s.listener(unit, record)
	}
	if !record.Succeeded() {
		_ = level.Error(logger).Log("msg", fmt.Sprintf("process exited with code %d", record.ExitCode), "exit_code", record.ExitCode, "elapsed", record.Elapsed)
		return fmt.Errorf("%w: unit %s iteration %d pid %d exit code %d", ErrProcessFailed, unit.ID, iteration, pid, record.ExitCode)
	}
	_ = level.Info(logger).Log("msg", "process exited successfully", "exit_code", record.ExitCode, "elapsed", record.Elapsed)
	return nil
}

// NewService creates a new executor service instance. Without options it
// launches local processes pinned with taskset and discards log entries.
func NewService(opts ...Option) Service {
	s := &service{config: DefaultConfig()}
	for _, o := range opts {
		o(s)
	}
	if s.launcher == nil {
		s.launcher = local.New()
	}
	if s.sink == nil {
		s.sink = sink.Nop()
	}
	if s.config.Shell == "" {
		s.config.Shell = DefaultConfig().Shell
	}
	return s
}
