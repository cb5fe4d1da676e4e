// Package policy provides the repeat predicate evaluated by every worker
// between iterations and the run-wide failure policy. The failure policy can
// be attached to the run context; a context without one behaves as ModeAbort.

package policy

import (
	"context"
	"fmt"
	"strings"
)

// Unbounded marks a repeat budget that never runs out.
const Unbounded = -1

// Failure modes recognised by the engine.
const (
	ModeAbort = "abort" // kill in-flight siblings as soon as a unit fails (default)
	ModeDrain = "drain" // let siblings finish their current iteration, then stop
)

// ShouldContinue reports whether another iteration may start given the
// repeat budget and the number of iterations completed so far.
func ShouldContinue(repeat, completed int) bool {
	if repeat == Unbounded {
		return true
	}
	return completed < repeat
}

// Policy represents the failure handling settings for the current run.
//
// A nil *Policy means ModeAbort.
type Policy struct {
	OnFailure string
}

// ---------------------------------------------------------------------------
// Config <-> Policy converters
// ---------------------------------------------------------------------------

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	OnFailure string `json:"onFailure,omitempty" yaml:"onFailure,omitempty"`
}

// FromConfig converts a Config to a runtime Policy.
func FromConfig(c *Config) (*Policy, error) {
	if c == nil {
		return nil, nil
	}
	mode := strings.ToLower(strings.TrimSpace(c.OnFailure))
	switch mode {
	case "":
		mode = ModeAbort
	case ModeAbort, ModeDrain:
	default:
		return nil, fmt.Errorf("unsupported failure mode %q, expected %s or %s", c.OnFailure, ModeAbort, ModeDrain)
	}
	return &Policy{OnFailure: mode}, nil
}

// Mode returns the effective failure mode.
func (p *Policy) Mode() string {
	if p == nil || p.OnFailure == "" {
		return ModeAbort
	}
	return p.OnFailure
}

// KillsInFlight reports whether cancellation terminates running processes.
func (p *Policy) KillsInFlight() bool {
	return p.Mode() == ModeAbort
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
