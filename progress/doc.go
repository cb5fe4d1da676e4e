// Package progress keeps aggregated counters for a launch run (units total,
// running, done, failed and iterations finished) so that the run can report a
// summary and callers can observe it while units are still running.
package progress
