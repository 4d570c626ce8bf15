package pyrt

import (
	"strings"

	"github.com/pyrt-dev/pyrt/internal/abi"
)

// dictEntry is one used slot: the owned key and value references.
// DictDel removes an entry from the map outright, so no tombstone
// entries exist.
type dictEntry struct {
	key Object
	val Object
}

// DictObject is a dict restricted to string keys: an internal hash
// table, string-keyed in this minimal ABI. It is implemented directly
// as a Go map keyed by the Go string, with the
// original StrObject key retained per entry so iteration (DictType.Iter)
// can return real PyObject handles.
type DictObject struct {
	Header
	entries map[string]*dictEntry
}

// DictType is dict's type descriptor.
var DictType = &Type{
	Name: "dict",
	Repr: func(o Object) (string, error) { return dictRepr(o.(*DictObject)) },
	Bool: func(o Object) bool { return len(o.(*DictObject).entries) > 0 },
	Len:  func(o Object) int { return len(o.(*DictObject).entries) },
	GetItem: func(o Object, key Object) (Object, error) {
		ks, ok := key.(*StrObject)
		if !ok {
			return nil, &Error{Kind: KindTypeError, Message: "dict keys must be str in the minimal ABI"}
		}
		d := o.(*DictObject)
		e, ok := d.entries[ks.val]
		if !ok {
			return nil, &Error{Kind: KindKeyError, Message: ks.val}
		}
		Incref(e.val)
		return e.val, nil
	},
	SetItem: func(o Object, key, val Object) error {
		ks, ok := key.(*StrObject)
		if !ok {
			return &Error{Kind: KindTypeError, Message: "dict keys must be str in the minimal ABI"}
		}
		d := o.(*DictObject)
		Incref(key)
		Incref(val)
		if old, ok := d.entries[ks.val]; ok {
			Decref(old.key, DefaultAllocator())
			Decref(old.val, DefaultAllocator())
		}
		d.entries[ks.val] = &dictEntry{key: key, val: val}
		return nil
	},
	Traverse: func(o Object, visit func(Object)) error {
		for _, e := range o.(*DictObject).entries {
			visit(e.key)
			visit(e.val)
		}
		return nil
	},
	Clear: func(o Object) {
		d := o.(*DictObject)
		for _, e := range d.entries {
			Decref(e.key, DefaultAllocator())
			Decref(e.val, DefaultAllocator())
		}
		d.entries = make(map[string]*dictEntry)
	},
	Dealloc: func(o Object, alloc Allocator) {
		d := o.(*DictObject)
		for _, e := range d.entries {
			Decref(e.key, alloc)
			Decref(e.val, alloc)
		}
	},
}

func init() {
	DictType.Flags |= abi.FlagHasGC
}

// NewDict constructs an empty dict.
func NewDict() Object {
	return &DictObject{Header: newHeader(DictType), entries: make(map[string]*dictEntry)}
}

// DictDel removes key from d, returning whether it was present. On
// removal the key and value references are released.
func DictDel(d Object, key string) bool {
	do := d.(*DictObject)
	e, ok := do.entries[key]
	if !ok {
		return false
	}
	delete(do.entries, key)
	Decref(e.key, DefaultAllocator())
	Decref(e.val, DefaultAllocator())
	return true
}

// DictGetGo looks up a dict entry by a plain Go string, for callers that
// already have a Go string rather than a StrObject. The returned value is
// a borrowed reference.
func DictGetGo(d Object, key string) (Object, bool) {
	do := d.(*DictObject)
	e, ok := do.entries[key]
	if !ok {
		return nil, false
	}
	return e.val, true
}

func dictRepr(d *DictObject) (string, error) {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for k, e := range d.entries {
		if !first {
			b.WriteString(", ")
		}
		first = false
		vs, err := ReprOf(e.val)
		if err != nil {
			return "", err
		}
		b.WriteString(reprStr(k))
		b.WriteString(": ")
		b.WriteString(vs)
	}
	b.WriteByte('}')
	return b.String(), nil
}
