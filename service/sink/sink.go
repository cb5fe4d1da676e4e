// Package sink provides the process-wide log destination shared by every
// worker of a run. Each log call produces exactly one write, so entries from
// concurrent workers never interleave mid-line.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DefaultLogFile is the append-mode log written next to the working directories.
const DefaultLogFile = "app.log"

// Config controls where entries go.
type Config struct {
	// Quiet suppresses every entry, including the log file.
	Quiet bool
	// LogFile is opened in append mode; empty disables the file.
	LogFile string
	// Console receives a copy of every entry; nil disables it.
	Console io.Writer
}

// Sink is an append-only, concurrency-safe log destination.
type Sink struct {
	logger  log.Logger
	closers []io.Closer
	once    sync.Once
	err     error
}

// New wraps w into a timestamped logfmt sink.
func New(w io.Writer, closers ...io.Closer) *Sink {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestamp)
	return &Sink{logger: logger, closers: closers}
}

// Nop returns a sink discarding every entry.
func Nop() *Sink {
	return &Sink{logger: log.NewNopLogger()}
}

// Open builds a sink from config.
func Open(config *Config) (*Sink, error) {
	if config == nil || config.Quiet {
		return Nop(), nil
	}
	var writers []io.Writer
	var closers []io.Closer
	if config.LogFile != "" {
		file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", config.LogFile, err)
		}
		writers = append(writers, file)
		closers = append(closers, file)
	}
	if config.Console != nil {
		writers = append(writers, config.Console)
	}
	if len(writers) == 0 {
		return Nop(), nil
	}
	return New(io.MultiWriter(writers...), closers...), nil
}

// Logger returns the underlying logger.
func (s *Sink) Logger() log.Logger {
	return s.logger
}

// With returns a logger adding keyvals to every entry.
func (s *Sink) With(keyvals ...interface{}) log.Logger {
	return log.With(s.logger, keyvals...)
}

// Info logs an info level entry.
func (s *Sink) Info(keyvals ...interface{}) {
	_ = level.Info(s.logger).Log(keyvals...)
}

// Error logs an error level entry.
func (s *Sink) Error(keyvals ...interface{}) {
	_ = level.Error(s.logger).Log(keyvals...)
}

// Close flushes and closes files opened by the sink. It is idempotent.
func (s *Sink) Close() error {
	s.once.Do(func() {
		var errs []error
		for _, closer := range s.closers {
			if syncer, ok := closer.(interface{ Sync() error }); ok {
				_ = syncer.Sync()
			}
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}
