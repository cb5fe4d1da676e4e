package executor

import (
	"github.com/viant/cpulaunch/service/launcher"
	"github.com/viant/cpulaunch/service/metrics"
	"github.com/viant/cpulaunch/service/sink"
)

// Option is used to customise the executor instance.
type Option func(*service)

// WithListener sets a callback invoked after every finished iteration.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// WithLauncher sets the process launcher.
func WithLauncher(l launcher.Launcher) Option {
	return func(s *service) {
		s.launcher = l
	}
}

// WithSink sets the shared log sink.
func WithSink(sink *sink.Sink) Option {
	return func(s *service) {
		s.sink = sink
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) {
		s.metrics = m
	}
}

// WithConfig overrides the shell and affinity settings.
func WithConfig(config Config) Option {
	return func(s *service) {
		s.config = config
	}
}
