//go:build darwin

package iomux

// NewReadinessBackend returns the default readiness-notification backend
// for the current platform (kqueue on Darwin).
func NewReadinessBackend() Backend { return NewKqueueBackend() }

// NewKernelEventQueueBackend has no Darwin implementation; Darwin has no
// io_uring equivalent, so callers requesting the kernel-event-queue
// family fall back to the readiness-notification backend.
func NewKernelEventQueueBackend(depth uint32) Backend { return NewKqueueBackend() }
