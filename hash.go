package pyrt

import "github.com/cespare/xxhash/v2"

// Hash dispatches to obj's type's Hash hook, surfacing TypeError through
// the exception channel for unhashable kinds.
func Hash(obj Object) (int64, bool) {
	t := TypeOf(obj)
	if t == nil || t.Hash == nil {
		SetException(NewRuntimeError(KindTypeError, "unhashable type: "+typeName(t)))
		return 0, false
	}
	h, err := t.Hash(obj)
	if err != nil {
		SetException(NewRuntimeError(KindTypeError, err.Error()))
		return 0, false
	}
	return h, true
}

// HashTuple folds a sequence of element hashes into a single tuple hash
// using an xxHash-style fold. It is exported so kind_tuple.go and any
// dict/set implementation hashing a tuple key can share one algorithm.
func HashTuple(elemHashes []int64) int64 {
	d := xxhash.New()
	var buf [8]byte
	for _, h := range elemHashes {
		u := uint64(h)
		buf[0] = byte(u)
		buf[1] = byte(u >> 8)
		buf[2] = byte(u >> 16)
		buf[3] = byte(u >> 24)
		buf[4] = byte(u >> 32)
		buf[5] = byte(u >> 40)
		buf[6] = byte(u >> 48)
		buf[7] = byte(u >> 56)
		_, _ = d.Write(buf[:])
	}
	sum := int64(d.Sum64())
	if sum == -1 {
		return -2
	}
	return sum
}
