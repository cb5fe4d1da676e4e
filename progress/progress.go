// Package progress provides a lightweight tracker that keeps aggregated
// execution counters for a single run. The tracker instance lives in the run
// context. Every worker that receives the context can update the counters
// via UpdateCtx without requiring a global registry.

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/cpulaunch/internal/clock"
)

// Delta represents an incremental counter change emitted by the processor or
// executor. The fields are signed and therefore can be either positive
// (increment) or negative (decrement).
type Delta struct {
	Total      int
	Running    int
	Done       int
	Failed     int
	Cancelled  int
	Iterations int
}

// Progress keeps aggregated unit counters. It is safe for concurrent use.
type Progress struct {
	RunID     string
	Source    string
	StartedAt time.Time

	TotalUnits     int
	RunningUnits   int
	DoneUnits      int
	FailedUnits    int
	CancelledUnits int
	Iterations     int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta to the tracker. If an onChange callback
// has been registered it is invoked with a copy of the updated tracker
// outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()

	p.TotalUnits += d.Total
	p.RunningUnits += d.Running
	p.DoneUnits += d.Done
	p.FailedUnits += d.Failed
	p.CancelledUnits += d.Cancelled
	p.Iterations += d.Iterations

	snapshot := p.copyLocked()
	cb := p.onChange

	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copyLocked()
}

// Terminal returns the number of units that reached a terminal state.
func (p *Progress) Terminal() int {
	return p.DoneUnits + p.FailedUnits + p.CancelledUnits
}

func (p *Progress) copyLocked() Progress {
	return Progress{
		RunID:          p.RunID,
		Source:         p.Source,
		StartedAt:      p.StartedAt,
		TotalUnits:     p.TotalUnits,
		RunningUnits:   p.RunningUnits,
		DoneUnits:      p.DoneUnits,
		FailedUnits:    p.FailedUnits,
		CancelledUnits: p.CancelledUnits,
		Iterations:     p.Iterations,
	}
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both.
func WithNewTracker(ctx context.Context, runID, source string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		RunID:     runID,
		Source:    source,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the Progress tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx looks up the tracker in ctx (if any) and applies the delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
