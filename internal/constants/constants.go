// Package constants holds default tunables shared across the runtime.
package constants

import "time"

const (
	// DefaultWorkerCount of 0 means "one per CPU"; the scheduler resolves
	// it via runtime.NumCPU() at construction time.
	DefaultWorkerCount = 0

	// DefaultDequeCapacity is the initial backing capacity of a worker's
	// work-stealing deque.
	DefaultDequeCapacity = 256

	// DefaultQueueDepth is the default io_uring submission queue depth
	// used by the kernel-event-queue multiplexer backend.
	DefaultQueueDepth = 128

	// DefaultEvalCacheCapacityHint sizes the evaluation cache's initial
	// map allocation; the cache itself is unbounded and never evicts.
	DefaultEvalCacheCapacityHint = 64
)

// PollTimeout is a per-iteration multiplexer wait timeout. Nothing in this
// module passes it; idle workers poll the multiplexer with
// WorkerIdleYield instead.
const PollTimeout = 4 * time.Millisecond

// WorkerIdleYield is how long a worker waits after an unsuccessful pop,
// drain, and steal attempt before looping again, to avoid a hot spin: it
// polls the wired multiplexer for that long, or sleeps when none is
// wired.
const WorkerIdleYield = 200 * time.Microsecond
