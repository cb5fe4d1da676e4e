// Package tracing wires OpenTelemetry into the launcher: one span per
// execution unit and one child span per iteration. Tracing is opt-in; without
// Init the global no-op provider is used and spans cost nothing.
package tracing
