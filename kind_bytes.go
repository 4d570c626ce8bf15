package pyrt

import (
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// BytesObject is a Python bytes object: an immutable byte payload backed
// by an Allocator-obtained buffer, with a lazily cached hash.
type BytesObject struct {
	Header
	val   []byte
	hash  int64
	alloc Allocator
}

// BytesType is bytes' type descriptor.
var BytesType = &Type{
	Name: "bytes",
	Repr: func(o Object) (string, error) { return fmt.Sprintf("b'%s'", o.(*BytesObject).val), nil },
	Hash: func(o Object) (int64, error) { return bytesHash(o.(*BytesObject)), nil },
	Bool: func(o Object) bool { return len(o.(*BytesObject).val) > 0 },
	Compare: func(a, b Object) (CompareResult, error) {
		bo, ok := b.(*BytesObject)
		if !ok {
			return Unsupported, nil
		}
		av, bv := a.(*BytesObject).val, bo.val
		n := len(av)
		if len(bv) < n {
			n = len(bv)
		}
		for i := 0; i < n; i++ {
			if av[i] != bv[i] {
				if av[i] < bv[i] {
					return Less, nil
				}
				return Greater, nil
			}
		}
		switch {
		case len(av) < len(bv):
			return Less, nil
		case len(av) > len(bv):
			return Greater, nil
		default:
			return Equal, nil
		}
	},
	Len: func(o Object) int { return len(o.(*BytesObject).val) },
	Dealloc: func(o Object, alloc Allocator) {
		bo := o.(*BytesObject)
		if bo.alloc != nil {
			bo.alloc.Free(bo.val)
		}
	},
}

// NewBytes copies src into an allocator-owned buffer and returns a
// BytesObject owning it.
func NewBytes(alloc Allocator, src []byte) (Object, error) {
	if alloc == nil {
		alloc = DefaultAllocator()
	}
	buf, err := alloc.Alloc(len(src))
	if err != nil {
		SetException(NewRuntimeError(KindMemoryError, err.Error()))
		return nil, err
	}
	copy(buf, src)
	return &BytesObject{Header: newHeader(BytesType), val: buf[:len(src)], hash: -1, alloc: alloc}, nil
}

// AsBytes extracts the backing byte slice. Callers must not retain it
// past the BytesObject's lifetime without a copy.
func AsBytes(obj Object) []byte { return obj.(*BytesObject).val }

// bytesHash reads and writes the cached hash with sync/atomic; see
// strHash's comment for why a CompareAndSwap race is safe here.
func bytesHash(b *BytesObject) int64 {
	if h := atomic.LoadInt64(&b.hash); h != -1 {
		return h
	}
	h := int64(xxhash.Sum64(b.val))
	if h == -1 {
		h = -2
	}
	atomic.CompareAndSwapInt64(&b.hash, -1, h)
	return h
}
