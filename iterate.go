package pyrt

// sliceIterator adapts a []Object snapshot to the Iterator interface, used
// by list, tuple, and the string/set/dict iterators below.
type sliceIterator struct {
	Header
	elems []Object
	pos   int
}

var sliceIteratorType = &Type{
	Name: "iterator",
	Dealloc: func(o Object, alloc Allocator) {
		it := o.(*sliceIterator)
		for _, e := range it.elems[it.pos:] {
			Decref(e, alloc)
		}
	},
}

func (it *sliceIterator) Next() (Object, bool) {
	if it.pos >= len(it.elems) {
		SetException(NewRuntimeError(KindStopIteration, ""))
		return nil, false
	}
	e := it.elems[it.pos]
	it.pos++
	return e, true
}

func newSliceIterator(elems []Object) *sliceIterator {
	cp := make([]Object, len(elems))
	for i, e := range elems {
		Incref(e)
		cp[i] = e
	}
	return &sliceIterator{Header: newHeader(sliceIteratorType), elems: cp}
}

func init() {
	ListType.Iter = func(o Object) (Iterator, error) { return newSliceIterator(o.(*ListObject).elems), nil }
	TupleType.Iter = func(o Object) (Iterator, error) { return newSliceIterator(o.(*TupleObject).elems), nil }
	StrType.Iter = func(o Object) (Iterator, error) {
		s := o.(*StrObject).val
		elems := make([]Object, 0, len(s))
		for _, r := range s {
			elems = append(elems, NewStr(string(r)))
		}
		return newSliceIterator(elems), nil
	}
	SetType.Iter = func(o Object) (Iterator, error) {
		so := o.(*SetObject)
		var elems []Object
		for _, bucket := range so.buckets {
			for _, e := range bucket {
				elems = append(elems, e.key)
			}
		}
		return newSliceIterator(elems), nil
	}
	DictType.Iter = func(o Object) (Iterator, error) {
		d := o.(*DictObject)
		elems := make([]Object, 0, len(d.entries))
		for _, e := range d.entries {
			elems = append(elems, e.key)
		}
		return newSliceIterator(elems), nil
	}
}

// Iter returns an Iterator over obj via its type's Iter hook, surfacing
// TypeError for non-iterable kinds.
func Iter(obj Object) (Iterator, error) {
	t := TypeOf(obj)
	if t == nil || t.Iter == nil {
		err := &Error{Kind: KindTypeError, Message: "'" + typeName(t) + "' object is not iterable"}
		SetException(err)
		return nil, err
	}
	return t.Iter(obj)
}

// Next advances it, reporting (nil, false) and a set StopIteration once
// exhausted.
func Next(it Iterator) (Object, bool) {
	return it.Next()
}
