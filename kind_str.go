package pyrt

import (
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// StrObject is a Python str: an immutable UTF-8 payload with a lazily
// computed, cached hash. −1 is the "not yet computed" sentinel; the
// −1→−2 remapping shared with intHash keeps a real hash value of −1
// from colliding with that sentinel.
type StrObject struct {
	Header
	val  string
	hash int64 // -1 until computed
}

// StrType is str's type descriptor.
var StrType = &Type{
	Name: "str",
	Repr: func(o Object) (string, error) { return reprStr(o.(*StrObject).val), nil },
	Str:  func(o Object) (string, error) { return o.(*StrObject).val, nil },
	Hash: func(o Object) (int64, error) { return strHash(o.(*StrObject)), nil },
	Bool: func(o Object) bool { return len(o.(*StrObject).val) > 0 },
	Compare: func(a, b Object) (CompareResult, error) {
		bo, ok := b.(*StrObject)
		if !ok {
			return Unsupported, nil
		}
		av, bv := a.(*StrObject).val, bo.val
		switch {
		case av < bv:
			return Less, nil
		case av > bv:
			return Greater, nil
		default:
			return Equal, nil
		}
	},
	Len: func(o Object) int { return len([]rune(o.(*StrObject).val)) },
}

// NewStr constructs a StrObject. The hash is computed lazily on first
// Hash() call and cached for the object's lifetime, since strings are
// immutable.
func NewStr(s string) Object {
	return &StrObject{Header: newHeader(StrType), val: s, hash: -1}
}

// AsStr extracts the Go string value. Panics if obj is not a str.
func AsStr(obj Object) string { return obj.(*StrObject).val }

// strHash reads and writes the cached hash with sync/atomic, the same
// discipline object.go uses for refcount: val is immutable, so two
// goroutines racing to compute the hash both arrive at the same value,
// and the CompareAndSwap just picks whichever stores first.
func strHash(s *StrObject) int64 {
	if h := atomic.LoadInt64(&s.hash); h != -1 {
		return h
	}
	h := int64(xxhash.Sum64String(s.val))
	if h == -1 {
		h = -2
	}
	atomic.CompareAndSwapInt64(&s.hash, -1, h)
	return h
}

func reprStr(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for _, r := range s {
		switch r {
		case '\'':
			out = append(out, '\\', '\'')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, string(r)...)
		}
	}
	out = append(out, '\'')
	return string(out)
}
