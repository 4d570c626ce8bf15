package pyrt

import (
	"strings"

	"github.com/pyrt-dev/pyrt/internal/abi"
)

// ListObject is a mutable, growable sequence. Unlike tuple it is
// unhashable (no Hash hook) and participates in cycle tracing since it
// can hold a reference to itself.
type ListObject struct {
	Header
	elems []Object
}

// ListType is list's type descriptor.
var ListType = &Type{
	Name:  "list",
	Flags: 0,
	Repr:  func(o Object) (string, error) { return listRepr(o.(*ListObject)) },
	Bool:  func(o Object) bool { return len(o.(*ListObject).elems) > 0 },
	Compare: func(a, b Object) (CompareResult, error) {
		bo, ok := b.(*ListObject)
		if !ok {
			return Unsupported, nil
		}
		return compareSequence(a.(*ListObject).elems, bo.elems)
	},
	Len: func(o Object) int { return len(o.(*ListObject).elems) },
	GetItem: func(o Object, key Object) (Object, error) {
		i, ok := indexInt(key)
		if !ok {
			return nil, &Error{Kind: KindTypeError, Message: "list indices must be integers"}
		}
		l := o.(*ListObject)
		if i < 0 {
			i += len(l.elems)
		}
		if i < 0 || i >= len(l.elems) {
			return nil, &Error{Kind: KindIndexError, Message: "list index out of range"}
		}
		Incref(l.elems[i])
		return l.elems[i], nil
	},
	SetItem: func(o Object, key, val Object) error {
		i, ok := indexInt(key)
		if !ok {
			return &Error{Kind: KindTypeError, Message: "list indices must be integers"}
		}
		l := o.(*ListObject)
		if i < 0 {
			i += len(l.elems)
		}
		if i < 0 || i >= len(l.elems) {
			return &Error{Kind: KindIndexError, Message: "list assignment index out of range"}
		}
		old := l.elems[i]
		Incref(val)
		l.elems[i] = val
		Decref(old, DefaultAllocator())
		return nil
	},
	Traverse: func(o Object, visit func(Object)) error {
		for _, e := range o.(*ListObject).elems {
			visit(e)
		}
		return nil
	},
	Clear: func(o Object) {
		l := o.(*ListObject)
		for _, e := range l.elems {
			Decref(e, DefaultAllocator())
		}
		l.elems = nil
	},
	Dealloc: func(o Object, alloc Allocator) {
		l := o.(*ListObject)
		for _, e := range l.elems {
			Decref(e, alloc)
		}
	},
}

func init() {
	ListType.Flags |= abi.FlagHasGC
}

// NewList takes ownership of one reference to each element.
func NewList(elems ...Object) Object {
	cp := append([]Object(nil), elems...)
	return &ListObject{Header: newHeader(ListType), elems: cp}
}

// ListAppend takes ownership of one reference to val.
func ListAppend(list Object, val Object) {
	l := list.(*ListObject)
	l.elems = append(l.elems, val)
}

// ListElems exposes the backing slice for iteration collaborators.
func ListElems(obj Object) []Object { return obj.(*ListObject).elems }

func listRepr(l *ListObject) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.elems {
		if i > 0 {
			b.WriteString(", ")
		}
		s, err := ReprOf(e)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	b.WriteByte(']')
	return b.String(), nil
}
