// Package abi documents and enforces the PyObject ABI contract: the
// layout external collaborator modules (hashing, serialization, the
// code generator) rely on when they hold a handle to an object allocated
// by this runtime.
//
// Go does not let arbitrary external code reach into a struct by raw
// offset the way a C ABI does, so the "two machine pointers" header
// contract is expressed here as a documented, compile-time-checked
// struct rather than a raw memory layout: Header is the first field of
// every concrete kind (enforced by convention and by the constructors in
// the root package), and its own layout is pinned by the assertions
// below using the same compile-time size-check idiom used elsewhere in
// this runtime for wire structs.
package abi

import "unsafe"

// RawHeader mirrors the two-pointer PyObject header: a
// signed, pointer-wide reference count followed by a pointer-wide type
// descriptor reference. It exists purely for the size assertion below;
// the root package's Header type is the one actually embedded in every
// concrete kind and additionally carries a *Type the Go way (a typed
// pointer, not a raw word).
type RawHeader struct {
	RefCount int64
	TypeTag  uintptr
}

// HeaderSize is the ABI-mandated header size: two machine pointers.
const HeaderSize = 2 * unsafe.Sizeof(uintptr(0))

// Compile-time assertion that RawHeader matches the documented ABI size
// on every supported architecture.
var _ [HeaderSize]byte = [unsafe.Sizeof(RawHeader{})]byte{}

// VarSizeHeader mirrors the header used by variable-length kinds (str,
// bytes, list, tuple): the base header plus one machine word for the
// element count.
type VarSizeHeader struct {
	RawHeader
	Length uintptr
}

// VarSizeHeaderSize is HeaderSize plus one machine word.
const VarSizeHeaderSize = HeaderSize + unsafe.Sizeof(uintptr(0))

var _ [VarSizeHeaderSize]byte = [unsafe.Sizeof(VarSizeHeader{})]byte{}

// TypeFlags are the type-descriptor flags.
type TypeFlags uint32

const (
	// FlagHeapType marks a type allocated on the heap rather than a
	// static built-in descriptor.
	FlagHeapType TypeFlags = 1 << iota
	// FlagBaseType marks a type other types may subclass.
	FlagBaseType
	// FlagHasGC marks a type whose instances participate in cycle
	// tracing (its Traverse/Clear hooks are non-nil).
	FlagHasGC
)
