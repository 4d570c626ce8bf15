package pyrt

import (
	"sync"

	"github.com/pyrt-dev/pyrt/internal/interfaces"
)

// Allocator is the allocation discipline every constructor and container
// mutator routes through when it needs backing storage for variable-length
// payloads (str bytes, list/dict backing arrays). It is the root-package
// alias of interfaces.Allocator so object model code does not need to
// import internal/interfaces directly.
type Allocator = interfaces.Allocator

// AllocatorStats is the root alias of interfaces.AllocatorStats.
type AllocatorStats = interfaces.AllocatorStats

// sizeClasses are the pooled buffer sizes the default allocator rounds
// requests up to, mirroring the bucketed sync.Pool strategy used for
// fixed-size I/O buffers.
var sizeClasses = [...]int{64, 256, 1024, 4096, 16384, 65536}

// PooledAllocator is the default Allocator: a set of size-classed
// sync.Pools plus atomic accounting counters. It never shrinks; freed
// buffers return to their class's pool for reuse.
type PooledAllocator struct {
	pools [len(sizeClasses)]sync.Pool

	mu    sync.Mutex
	stats AllocatorStats
}

// NewPooledAllocator constructs a ready-to-use PooledAllocator.
func NewPooledAllocator() *PooledAllocator {
	a := &PooledAllocator{}
	for i, sz := range sizeClasses {
		sz := sz
		a.pools[i].New = func() any {
			buf := make([]byte, sz)
			return &buf
		}
	}
	return a
}

func classFor(size int) int {
	for i, sz := range sizeClasses {
		if size <= sz {
			return i
		}
	}
	return -1
}

// Alloc returns a zeroed buffer of at least size bytes. Requests larger
// than the biggest size class fall back to a direct allocation that is
// never pooled.
func (a *PooledAllocator) Alloc(size int) ([]byte, error) {
	a.mu.Lock()
	a.stats.Allocations++
	a.stats.BytesLive += int64(size)
	a.mu.Unlock()

	class := classFor(size)
	if class < 0 {
		return make([]byte, size), nil
	}
	bufp := a.pools[class].Get().(*[]byte)
	buf := (*bufp)[:size]
	for i := range buf {
		buf[i] = 0
	}
	return buf, nil
}

// Free returns buf to its size class's pool. Buffers not obtained from a
// pooled size class (oversized allocations) are dropped for the GC to
// reclaim.
func (a *PooledAllocator) Free(buf []byte) {
	a.mu.Lock()
	a.stats.Frees++
	a.stats.BytesLive -= int64(len(buf))
	a.mu.Unlock()

	class := classFor(cap(buf))
	if class < 0 || sizeClasses[class] != cap(buf) {
		return
	}
	full := buf[:cap(buf)]
	a.pools[class].Put(&full)
}

// Stats returns a snapshot of cumulative allocation counters.
func (a *PooledAllocator) Stats() AllocatorStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

var defaultAllocatorOnce sync.Once
var defaultAllocatorInst *PooledAllocator

// DefaultAllocator returns the process-wide default allocator, used by
// constructors that are not passed an explicit Allocator.
func DefaultAllocator() Allocator {
	defaultAllocatorOnce.Do(func() {
		defaultAllocatorInst = NewPooledAllocator()
	})
	return defaultAllocatorInst
}
