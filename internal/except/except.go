// Package except implements the exception channel: a goroutine-local
// slot carrying a structured error kind plus an optional message. The
// scheduler carries a task's slot from one goroutine to another with
// Move.
//
// Go provides no native thread-local storage. Goroutines are not threads
// and have no stable identifier exposed by any public API. This package
// keys state by a goroutine id parsed out of runtime.Stack(), the same
// technique used by the handful of debugging tools that need one; it is
// slower than real TLS. The exception channel itself is touched on the
// error path; the scheduler also reads CurrentGoroutineID once for every
// task it runs.
package except

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// State is a single slot's contents: a structured kind plus message.
type State struct {
	Kind    string
	Message string
}

var (
	mu    sync.Mutex
	slots = make(map[int64]State)
)

// goroutineID parses the numeric id out of the current goroutine's stack
// trace header ("goroutine 123 [running]:"). It allocates; callers must
// not call it from a hot path that isn't already on the error branch.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0
	}
	b = b[len(prefix):]
	end := bytes.IndexByte(b, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(b[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Set installs kind/message as the current goroutine's pending exception.
func Set(kind, message string) {
	id := goroutineID()
	mu.Lock()
	slots[id] = State{Kind: kind, Message: message}
	mu.Unlock()
}

// Get returns the current goroutine's pending exception and whether one
// is set.
func Get() (State, bool) {
	id := goroutineID()
	mu.Lock()
	s, ok := slots[id]
	mu.Unlock()
	return s, ok
}

// Clear removes the current goroutine's pending exception, if any. A
// caught handler must call this before its body runs.
func Clear() {
	id := goroutineID()
	mu.Lock()
	delete(slots, id)
	mu.Unlock()
}

// Has reports whether the current goroutine has a pending exception.
func Has() bool {
	_, ok := Get()
	return ok
}

// Move transfers the pending exception from srcGoroutine to the calling
// goroutine, clearing the source slot. The scheduler uses this when a
// parked task's I/O completion callback runs on a different worker
// goroutine than the one that will observe the result: the task model is
// goroutine-agnostic, and the exception belongs to the task, not the OS
// thread running it at any given instant.
func Move(srcGoroutine int64) (State, bool) {
	mu.Lock()
	defer mu.Unlock()
	s, ok := slots[srcGoroutine]
	if ok {
		delete(slots, srcGoroutine)
		slots[goroutineID()] = s
	}
	return s, ok
}

// CurrentGoroutineID exposes the id this package uses internally, so the
// scheduler can record "which slot holds this task's exception" across a
// park/resume that changes the running goroutine.
func CurrentGoroutineID() int64 { return goroutineID() }
