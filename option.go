package cpulaunch

import (
	"github.com/viant/afs"
	"github.com/viant/cpulaunch/service/executor"
	"github.com/viant/cpulaunch/service/launcher"
	"github.com/viant/cpulaunch/service/metrics"
	"github.com/viant/cpulaunch/service/sink"
	"github.com/viant/cpulaunch/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithFS sets the file system used to load plans and create working
// directories.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLauncher sets the process launcher
func WithLauncher(l launcher.Launcher) Option {
	return func(s *Service) {
		s.launcher = l
	}
}

// WithSink sets the shared log sink. The Service never closes it.
func WithSink(sink *sink.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithExecutorOptions lets the caller supply additional options passed to
// executor.NewService (e.g. an iteration listener).
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty spans
// are written to stdout. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.initErr = err
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.initErr = err
		}
	}
}
