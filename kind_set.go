package pyrt

import (
	"strings"

	"github.com/pyrt-dev/pyrt/internal/abi"
)

// setEntry stores the original object alongside its hash so SetType's
// hash table can handle any hashable kind, not just strings: unlike
// DictType's string-only minimal ABI, a set's hash table of element
// keys imposes no such restriction.
type setEntry struct {
	key  Object
	hash int64
}

// SetObject is a mutable set. FrozenSetObject below is the immutable,
// hashable counterpart.
type SetObject struct {
	Header
	buckets map[int64][]setEntry
}

// FrozenSetObject is an immutable set, hashable by folding its elements'
// hashes order-independently (XOR, matching Python's set hash definition
// being order-independent).
type FrozenSetObject struct {
	Header
	buckets map[int64][]setEntry
	hash    int64
}

func newBuckets() map[int64][]setEntry { return make(map[int64][]setEntry) }

func setInsert(buckets map[int64][]setEntry, obj Object) bool {
	h, ok := Hash(obj)
	if !ok {
		return false
	}
	for _, e := range buckets[h] {
		if Equal(e.key, obj) {
			return true
		}
	}
	Incref(obj)
	buckets[h] = append(buckets[h], setEntry{key: obj, hash: h})
	return true
}

func setContains(buckets map[int64][]setEntry, obj Object) bool {
	h, ok := Hash(obj)
	if !ok {
		return false
	}
	for _, e := range buckets[h] {
		if Equal(e.key, obj) {
			return true
		}
	}
	return false
}

func setLen(buckets map[int64][]setEntry) int {
	n := 0
	for _, b := range buckets {
		n += len(b)
	}
	return n
}

func setRepr(buckets map[int64][]setEntry) (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for _, bucket := range buckets {
		for _, e := range bucket {
			if !first {
				b.WriteString(", ")
			}
			first = false
			s, err := ReprOf(e.key)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	b.WriteByte('}')
	return b.String(), nil
}

// SetType is set's type descriptor. It has no Hash hook: sets are
// unhashable, matching Python.
var SetType = &Type{
	Name: "set",
	Repr: func(o Object) (string, error) { return setRepr(o.(*SetObject).buckets) },
	Bool: func(o Object) bool { return setLen(o.(*SetObject).buckets) > 0 },
	Len:  func(o Object) int { return setLen(o.(*SetObject).buckets) },
	Traverse: func(o Object, visit func(Object)) error {
		for _, bucket := range o.(*SetObject).buckets {
			for _, e := range bucket {
				visit(e.key)
			}
		}
		return nil
	},
	Clear: func(o Object) {
		s := o.(*SetObject)
		for _, bucket := range s.buckets {
			for _, e := range bucket {
				Decref(e.key, DefaultAllocator())
			}
		}
		s.buckets = newBuckets()
	},
	Dealloc: func(o Object, alloc Allocator) {
		s := o.(*SetObject)
		for _, bucket := range s.buckets {
			for _, e := range bucket {
				Decref(e.key, alloc)
			}
		}
	},
}

func init() { SetType.Flags |= abi.FlagHasGC }

// FrozenSetType is frozenset's type descriptor: like SetType but hashable
// and without mutation entry points.
var FrozenSetType = &Type{
	Name: "frozenset",
	Repr: func(o Object) (string, error) { return setRepr(o.(*FrozenSetObject).buckets) },
	Bool: func(o Object) bool { return setLen(o.(*FrozenSetObject).buckets) > 0 },
	Len:  func(o Object) int { return setLen(o.(*FrozenSetObject).buckets) },
	Hash: func(o Object) (int64, error) { return o.(*FrozenSetObject).hash, nil },
	Traverse: func(o Object, visit func(Object)) error {
		for _, bucket := range o.(*FrozenSetObject).buckets {
			for _, e := range bucket {
				visit(e.key)
			}
		}
		return nil
	},
	Dealloc: func(o Object, alloc Allocator) {
		s := o.(*FrozenSetObject)
		for _, bucket := range s.buckets {
			for _, e := range bucket {
				Decref(e.key, alloc)
			}
		}
	},
}

// NewSet constructs a mutable set from elems, taking ownership of one
// reference to each (elements with duplicate hash+equality are only
// stored once, and the duplicate's reference is released). An unhashable
// element is left out of the set and its reference stays with the caller.
func NewSet(elems ...Object) Object {
	buckets := newBuckets()
	for _, e := range elems {
		// setInsert keeps its own reference to a new element; releasing
		// the caller's reference here completes the ownership transfer,
		// and for a duplicate releases the reference that is not kept.
		if setInsert(buckets, e) {
			Decref(e, DefaultAllocator())
		}
	}
	return &SetObject{Header: newHeader(SetType), buckets: buckets}
}

// SetAdd inserts val into s, returning false if val is unhashable.
func SetAdd(s Object, val Object) bool {
	return setInsert(s.(*SetObject).buckets, val)
}

// SetContains reports whether val is a member of s.
func SetContains(s Object, val Object) bool {
	switch so := s.(type) {
	case *SetObject:
		return setContains(so.buckets, val)
	case *FrozenSetObject:
		return setContains(so.buckets, val)
	default:
		return false
	}
}

// NewFrozenSet constructs an immutable, hashable set.
func NewFrozenSet(elems ...Object) (Object, bool) {
	buckets := newBuckets()
	var hashes []int64
	for _, e := range elems {
		h, ok := Hash(e)
		if !ok {
			return nil, false
		}
		if !setContains(buckets, e) {
			hashes = append(hashes, h)
		}
		setInsert(buckets, e)
	}
	var fold int64
	for _, h := range hashes {
		fold ^= h
	}
	if fold == -1 {
		fold = -2
	}
	return &FrozenSetObject{Header: newHeader(FrozenSetType), buckets: buckets, hash: fold}, true
}
