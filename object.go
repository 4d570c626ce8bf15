// Package pyrt implements the core runtime of a Python-compatible
// execution system: the object model and reference counting, the
// exception channel, the M:N work-stealing scheduler, the I/O
// multiplexer, and the compile-on-miss evaluation cache. It is the
// surface a code generator emitting bytecode-driving Go would call into.
package pyrt

import "sync/atomic"

// immortalCount is the sentinel refcount value used for the None and
// bool singletons: it is initialized to a large positive value and
// every operation on them is a no-op that preserves it.
const immortalCount = 1 << 30

// Header is the two-word object header embedded as the first field of
// every concrete kind, matching the ABI documented in internal/abi.
//
// refcount is manipulated with sync/atomic rather than plain ++/--: the
// scheduler hands task results (ordinary PyObject handles) across worker
// goroutines via Task.Wait, so an object constructed on one worker is
// routinely Decref'd on another. Cross-task sharing is the common case
// in this runtime's scheduler, not a corner case, so the count field
// must be atomic.
type Header struct {
	refcount int64
	typ      *Type
}

// Object is the handle every other component allocates and manipulates.
// Every concrete kind (IntObject, FloatObject, StrObject, ...) embeds a
// Header and therefore satisfies Object by promotion.
type Object interface {
	hdr() *Header
}

// Hdr returns the header of an Object. It is exported for code outside
// this package that needs to inspect type identity or refcount without
// the concrete kinds.
func Hdr(o Object) *Header { return o.hdr() }

func (h *Header) hdr() *Header { return h }

// TypeOf returns the type descriptor of an object, or nil for a nil Object.
func TypeOf(o Object) *Type {
	if o == nil {
		return nil
	}
	return o.hdr().typ
}

// IsType reports whether obj's type descriptor is exactly t (pointer
// equality).
func IsType(obj Object, t *Type) bool {
	if obj == nil || t == nil {
		return false
	}
	return obj.hdr().typ == t
}

// RefCount returns the current reference count, for diagnostics and tests.
func RefCount(o Object) int64 {
	if o == nil {
		return 0
	}
	return atomic.LoadInt64(&o.hdr().refcount)
}

// Incref increments obj's reference count. Immortal objects (None, True,
// False) are no-ops. Never fails.
func Incref(obj Object) {
	if obj == nil {
		return
	}
	h := obj.hdr()
	if atomic.LoadInt64(&h.refcount) >= immortalCount {
		return
	}
	atomic.AddInt64(&h.refcount, 1)
}

// Decref decrements obj's reference count and, if it reaches zero, runs
// the type's destructor. The caller must have owned the reference being
// released. Decref never fails; a double-decref (count already zero) is
// logged as a bug rather than causing a crash: diagnostic resilience
// takes priority over strict correctness on this path.
func Decref(obj Object, alloc Allocator) {
	if obj == nil {
		return
	}
	h := obj.hdr()
	if atomic.LoadInt64(&h.refcount) >= immortalCount {
		return
	}
	if atomic.LoadInt64(&h.refcount) <= 0 {
		defaultLogger().Errorf("pyrt: decref of object with non-positive refcount: type=%v count=%d", typeName(h.typ), atomic.LoadInt64(&h.refcount))
		return
	}
	if atomic.AddInt64(&h.refcount, -1) == 0 {
		if h.typ != nil && h.typ.Dealloc != nil {
			h.typ.Dealloc(obj, alloc)
		}
	}
}

func typeName(t *Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

func newHeader(t *Type) Header {
	return Header{refcount: 1, typ: t}
}

func markImmortal(h *Header) {
	atomic.StoreInt64(&h.refcount, immortalCount)
}

// Truthy returns the Python-style truth value of obj. Total: every
// concrete kind has a defined truthiness, and this never fails.
func Truthy(obj Object) bool {
	if obj == nil {
		return false
	}
	t := obj.hdr().typ
	if t == nil || t.Bool == nil {
		return true
	}
	return t.Bool(obj)
}
