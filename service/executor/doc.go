// Package executor runs a single execution unit: it builds the
// affinity-pinned command line, launches the process, waits for it, logs what
// it left behind and decides whether another iteration follows.
package executor
