// Package processor runs execution units concurrently. Every unit gets its
// own worker goroutine; the first unit failure cancels the shared run
// context so that sibling workers stop according to the failure policy.
package processor
