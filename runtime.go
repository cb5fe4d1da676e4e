package cpulaunch

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/viant/cpulaunch/internal/clock"
	"github.com/viant/cpulaunch/internal/idgen"
	"github.com/viant/cpulaunch/model"
	"github.com/viant/cpulaunch/policy"
	"github.com/viant/cpulaunch/progress"
	"github.com/viant/cpulaunch/service/allocator"
	"github.com/viant/cpulaunch/service/dao/plan"
	"github.com/viant/cpulaunch/service/processor"
	"github.com/viant/cpulaunch/service/sink"
	"github.com/viant/cpulaunch/tracing"
)

// Runtime loads and runs plans.
type Runtime struct {
	config    *Config
	sink      *sink.Sink
	planDAO   *plan.Service
	allocator *allocator.Service
	processor *processor.Service
	initErr   error
}

// LoadPlan loads and validates the plan at URL.
func (r *Runtime) LoadPlan(ctx context.Context, URL string) (*model.Plan, error) {
	if r.initErr != nil {
		return nil, r.initErr
	}
	return r.planDAO.Load(ctx, URL)
}

// DecodePlan parses YAML plan bytes without touching the file system.
func (r *Runtime) DecodePlan(data []byte) (*model.Plan, error) {
	if r.initErr != nil {
		return nil, r.initErr
	}
	aPlan, err := r.planDAO.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode plan YAML: %w", err)
	}
	return aPlan, nil
}

// Run allocates every unit of aPlan and runs them concurrently. It returns
// once all units are terminal, together with the final counters. A plan
// that fails validation spawns nothing.
func (r *Runtime) Run(ctx context.Context, aPlan *model.Plan) (summary progress.Progress, err error) {
	if r.initErr != nil {
		return summary, r.initErr
	}
	aPolicy, err := r.config.Policy()
	if err != nil {
		return summary, err
	}
	runID := idgen.New()
	ctx = policy.WithPolicy(ctx, aPolicy)
	ctx, tracker := progress.WithNewTracker(ctx, runID, aPlan.Source, nil)
	ctx, span := tracing.StartSpan(ctx, "run")
	span.WithAttributes(map[string]string{"run": runID, "source": aPlan.Source, "onFailure": aPolicy.Mode()})
	defer func() { tracing.EndSpan(span, err) }()

	logger := r.sink.With("run", idgen.Short(runID))
	units, err := r.allocator.Allocate(ctx, aPlan)
	if err != nil {
		_ = level.Error(logger).Log("msg", "invalid plan", "source", aPlan.Source, "err", err)
		return tracker.Snapshot(), fmt.Errorf("failed to allocate units: %w", err)
	}
	_ = level.Info(logger).Log("msg", "run started", "source", aPlan.Source, "tasks", len(aPlan.Tasks), "units", len(units), "on_failure", aPolicy.Mode())

	err = r.processor.Run(ctx, units)
	summary = tracker.Snapshot()
	logSummary(logger, summary, err)
	return summary, err
}

func logSummary(logger log.Logger, summary progress.Progress, err error) {
	keyvals := []interface{}{
		"units", summary.TotalUnits,
		"completed", summary.DoneUnits,
		"failed", summary.FailedUnits,
		"cancelled", summary.CancelledUnits,
		"iterations", summary.Iterations,
		"elapsed", clock.Since(summary.StartedAt),
	}
	if err != nil {
		_ = level.Error(logger).Log(append([]interface{}{"msg", "run failed", "err", err}, keyvals...)...)
		return
	}
	_ = level.Info(logger).Log(append([]interface{}{"msg", "run finished"}, keyvals...)...)
}
