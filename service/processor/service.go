package processor

import (
	"context"
	"errors"

	"github.com/go-kit/log/level"
	"github.com/viant/cpulaunch/progress"
	"github.com/viant/cpulaunch/runtime/execution"
	"github.com/viant/cpulaunch/service/executor"
	"github.com/viant/cpulaunch/service/metrics"
	"github.com/viant/cpulaunch/service/sink"
	"golang.org/x/sync/errgroup"
)

// Service coordinates unit workers
type Service struct {
	executor executor.Service
	sink     *sink.Sink
	metrics  *metrics.Metrics
}

// Run starts one worker per unit and waits until every worker has reached a
// terminal state. It returns the first unit error; that error also cancels
// the context handed to the remaining workers.
func (s *Service) Run(ctx context.Context, units []*execution.Unit) error {
	progress.UpdateCtx(ctx, progress.Delta{Total: len(units)})
	if len(units) == 0 {
		return nil
	}
	_ = level.Info(s.sink.Logger()).Log("msg", "starting units", "units", len(units))

	group, groupCtx := errgroup.WithContext(ctx)
	for _, unit := range units {
		group.Go(func() error {
			return s.runUnit(groupCtx, unit)
		})
	}
	return group.Wait()
}

func (s *Service) runUnit(ctx context.Context, unit *execution.Unit) error {
	s.metrics.UnitStarted()
	progress.UpdateCtx(ctx, progress.Delta{Running: 1})

	err := s.executor.Run(ctx, unit)

	s.metrics.UnitFinished()
	delta := progress.Delta{Running: -1}
	switch Classify(err) {
	case execution.UnitStateDone:
		delta.Done = 1
	case execution.UnitStateCancelled:
		delta.Cancelled = 1
	default:
		delta.Failed = 1
	}
	progress.UpdateCtx(ctx, delta)
	return err
}

// Classify maps a unit error to the terminal state it left the unit in.
func Classify(err error) execution.UnitState {
	switch {
	case err == nil:
		return execution.UnitStateDone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return execution.UnitStateCancelled
	}
	return execution.UnitStateFailed
}

// New creates a processor. Without options units run on a default executor.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = sink.Nop()
	}
	if s.executor == nil {
		s.executor = executor.NewService(executor.WithSink(s.sink), executor.WithMetrics(s.metrics))
	}
	return s
}
