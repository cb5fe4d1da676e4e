package processor

import (
	"github.com/viant/cpulaunch/service/executor"
	"github.com/viant/cpulaunch/service/metrics"
	"github.com/viant/cpulaunch/service/sink"
)

// Option is used to customise the processor instance.
type Option func(*Service)

// WithExecutor sets the unit executor.
func WithExecutor(executor executor.Service) Option {
	return func(s *Service) {
		s.executor = executor
	}
}

// WithSink sets the shared log sink
func WithSink(sink *sink.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}
