package cpulaunch

import (
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/cpulaunch/service/allocator"
	"github.com/viant/cpulaunch/service/dao/plan"
	"github.com/viant/cpulaunch/service/executor"
	"github.com/viant/cpulaunch/service/launcher"
	"github.com/viant/cpulaunch/service/metrics"
	"github.com/viant/cpulaunch/service/processor"
	"github.com/viant/cpulaunch/service/sink"
)

// Service wires the launcher components together.
type Service struct {
	runtime         *Runtime
	config          *Config
	fs              afs.Service
	launcher        launcher.Launcher
	sink            *sink.Sink
	metrics         *metrics.Metrics
	executorOptions []executor.Option
	initErr         error
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	if err := s.config.Validate(); err != nil && s.initErr == nil {
		s.initErr = fmt.Errorf("invalid config: %w", err)
	}
	executorOptions := []executor.Option{
		executor.WithConfig(s.config.executorConfig()),
		executor.WithSink(s.sink),
		executor.WithMetrics(s.metrics),
	}
	if s.launcher != nil {
		executorOptions = append(executorOptions, executor.WithLauncher(s.launcher))
	}
	executorOptions = append(executorOptions, s.executorOptions...)

	s.runtime.config = s.config
	s.runtime.sink = s.sink
	s.runtime.initErr = s.initErr
	s.runtime.planDAO = plan.New(plan.WithFS(s.fs))
	s.runtime.allocator = allocator.New(s.fs, s.config.allocatorConfig())
	s.runtime.processor = processor.New(
		processor.WithExecutor(executor.NewService(executorOptions...)),
		processor.WithSink(s.sink),
		processor.WithMetrics(s.metrics))
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.sink == nil {
		s.sink = sink.Nop()
	}
}

// Runtime returns the plan runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// New creates a Service. Configuration problems surface on the first
// Runtime call.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}
