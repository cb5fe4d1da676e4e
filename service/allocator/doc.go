// Package allocator turns task definitions into execution units: one unit
// per cpuset, each with its own working directory. It is the only service
// that creates units; workers receive them read-only.
package allocator
