package pyrt

import "github.com/pyrt-dev/pyrt/internal/abi"

// CompareResult is the tri-state (plus "unsupported") result of a rich
// comparison.
type CompareResult int

const (
	Less CompareResult = iota - 1
	Equal
	Greater
	Unsupported
)

// Iterator is the handle returned by a type's Iter hook. Next returns a
// new reference and true, or (nil, false) with StopIteration set in the
// exception channel once exhausted.
type Iterator interface {
	Object
	Next() (Object, bool)
}

// ArithOp identifies a binary arithmetic or bitwise operator for the
// Type.Arith dispatch table.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpTrueDiv
	OpFloorDiv
	OpMod
	OpPow
	OpAnd
	OpOr
	OpXor
	OpLShift
	OpRShift
)

// Type is the type descriptor: name, destructor, and a set of optional,
// nullable protocol hooks. Absence of a hook means the
// capability is not supported by that kind. A Type is itself conceptually
// a PyObject whose type is the metatype; in this Go rendition Type is a
// plain value the concrete kinds' Header points to rather than an Object
// in its own right, since Go's GC removes the need to refcount
// descriptors (they are immutable, program-lifetime singletons).
type Type struct {
	Name  string
	Flags abi.TypeFlags
	Base  *Type

	// Dealloc releases every reference the instance owns (container
	// elements, dict entries) or its allocator-owned buffer before the
	// instance itself becomes unreachable. Kinds that own neither (int,
	// float, complex, str, and the immortal singletons) leave it nil.
	Dealloc func(Object, Allocator)

	// Protocol hooks. All nullable.
	Repr     func(Object) (string, error)
	Str      func(Object) (string, error)
	Hash     func(Object) (int64, error)
	Bool     func(Object) bool
	Compare  func(a, b Object) (CompareResult, error)
	Iter     func(Object) (Iterator, error)
	Arith    func(op ArithOp, a, b Object) (Object, error)
	Traverse func(Object, func(Object)) error
	Clear    func(Object)

	// Sequence/mapping access, keyed by kind rather than split into a
	// separate protocol struct: Len covers list, tuple, str, bytes, dict,
	// set and frozenset; GetItem covers list, tuple and dict; SetItem
	// covers list and dict.
	Len     func(Object) int
	GetItem func(Object, Object) (Object, error)
	SetItem func(Object, Object, Object) error
}
