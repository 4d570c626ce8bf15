package pyrt

import "strings"

// TupleObject is an immutable, fixed-length sequence. Elements are owned
// references acquired at construction and released on Dealloc.
type TupleObject struct {
	Header
	elems []Object
}

// TupleType is tuple's type descriptor.
var TupleType = &Type{
	Name: "tuple",
	Repr: func(o Object) (string, error) { return tupleRepr(o.(*TupleObject)) },
	Hash: func(o Object) (int64, error) { return tupleHash(o.(*TupleObject)) },
	Bool: func(o Object) bool { return len(o.(*TupleObject).elems) > 0 },
	Compare: func(a, b Object) (CompareResult, error) {
		bo, ok := b.(*TupleObject)
		if !ok {
			return Unsupported, nil
		}
		return compareSequence(a.(*TupleObject).elems, bo.elems)
	},
	Len: func(o Object) int { return len(o.(*TupleObject).elems) },
	GetItem: func(o Object, key Object) (Object, error) {
		i, ok := indexInt(key)
		if !ok {
			return nil, &Error{Kind: KindTypeError, Message: "tuple indices must be integers"}
		}
		elems := o.(*TupleObject).elems
		if i < 0 {
			i += len(elems)
		}
		if i < 0 || i >= len(elems) {
			return nil, &Error{Kind: KindIndexError, Message: "tuple index out of range"}
		}
		Incref(elems[i])
		return elems[i], nil
	},
	Traverse: func(o Object, visit func(Object)) error {
		for _, e := range o.(*TupleObject).elems {
			visit(e)
		}
		return nil
	},
	Dealloc: func(o Object, alloc Allocator) {
		for _, e := range o.(*TupleObject).elems {
			Decref(e, alloc)
		}
	},
}

// NewTuple takes ownership of one reference to each element.
func NewTuple(elems ...Object) Object {
	cp := append([]Object(nil), elems...)
	return &TupleObject{Header: newHeader(TupleType), elems: cp}
}

// TupleElems exposes the backing slice of a tuple, for callers that hold
// an Object rather than a typed *TupleObject.
func TupleElems(obj Object) []Object { return obj.(*TupleObject).elems }

func tupleRepr(t *TupleObject) (string, error) {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range t.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := ReprOf(e)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	if len(t.elems) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')
	return b.String(), nil
}

func tupleHash(t *TupleObject) (int64, error) {
	hashes := make([]int64, len(t.elems))
	for i, e := range t.elems {
		h, ok := Hash(e)
		if !ok {
			return 0, &Error{Kind: KindTypeError, Message: "unhashable type in tuple"}
		}
		hashes[i] = h
	}
	return HashTuple(hashes), nil
}

// compareSequence implements Python's lexicographic sequence comparison,
// shared by tuple and (read-only parts of) list.
func compareSequence(a, b []Object) (CompareResult, error) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			continue
		}
		r, err := Compare(a[i], b[i])
		if err != nil {
			return Unsupported, err
		}
		if r != Equal {
			return r, nil
		}
	}
	switch {
	case len(a) < len(b):
		return Less, nil
	case len(a) > len(b):
		return Greater, nil
	default:
		return Equal, nil
	}
}

func indexInt(key Object) (int, bool) {
	switch v := key.(type) {
	case *IntObject:
		if v.big != nil {
			return 0, false
		}
		return int(v.small), true
	case *BoolObject:
		if v.val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
