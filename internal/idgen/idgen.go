package idgen

import "github.com/google/uuid"

// NewFunc produces a new run identifier. Override in tests for determinism.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique run identifier.
func New() string { return NewFunc() }

// Short returns the first eight characters of id, enough to tell concurrent
// runs apart in an interleaved log.
func Short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
