// Package evalcache implements a compile-on-miss bytecode evaluation
// cache: a mutex-guarded, source-string-keyed cache that holds at most
// one compiled program per distinct source string and dispatches every
// execution through an Interpreter collaborator.
package evalcache

import (
	"sync"

	"github.com/pyrt-dev/pyrt/internal/constants"
	"github.com/pyrt-dev/pyrt/internal/interfaces"
)

// Cache is the compile-on-miss cache. The zero value is not ready; use
// New.
type Cache struct {
	interp interfaces.Interpreter
	obs    interfaces.Observer

	mu      sync.Mutex
	entries map[string]interfaces.Program

	compileCount uint64
}

// New constructs a Cache dispatching compiles and executions to interp.
func New(interp interfaces.Interpreter, obs interfaces.Observer) *Cache {
	return &Cache{interp: interp, obs: obs, entries: make(map[string]interfaces.Program, constants.DefaultEvalCacheCapacityHint)}
}

// EvalCached compiles source on first use (caching the result keyed by
// the exact source string) and executes it every call, returning the
// interpreter's result value. Concurrent calls with the same source may
// both observe a cache miss and both compile; the second compile's result
// is simply discarded in favor of whichever insert under the lock wins
// first: the cache tolerates a duplicate compile race but never a
// duplicate entry, and correctness does not depend on which of two
// racing compiles is kept since both compile the same source.
func (c *Cache) EvalCached(source string) (any, error) {
	prog, err := c.getOrCompile(source)
	if err != nil {
		return nil, err
	}
	return c.interp.Execute(prog)
}

func (c *Cache) getOrCompile(source string) (interfaces.Program, error) {
	c.mu.Lock()
	prog, ok := c.entries[source]
	c.mu.Unlock()
	if ok {
		return prog, nil
	}

	prog, err := c.interp.Compile(source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.entries[source]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.entries[source] = prog
	c.compileCount++
	c.mu.Unlock()

	if c.obs != nil {
		c.obs.ObserveCompile(0)
	}
	return prog, nil
}

// Clear empties the cache: each source recompiles on its next EvalCached
// call. CompileCount is not reset.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]interfaces.Program)
	c.mu.Unlock()
}

// CompileCount returns the number of compiled programs inserted into the
// cache (not the number of EvalCached calls), for the "compile once,
// execute many" testable property. A compile that loses an insert race is
// not counted.
func (c *Cache) CompileCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compileCount
}

// Len reports the number of distinct cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
