package pyrt

import (
	"math/big"
	"strconv"
)

// IntObject is a Python int: a small-int fast path backed by int64, with
// silent widening to math/big.Int on overflow, so integer arithmetic
// widens to arbitrary precision instead of wrapping.
type IntObject struct {
	Header
	small int64
	big   *big.Int // non-nil only when the value does not fit in small
}

// IntType is int's type descriptor.
var IntType = &Type{
	Name: "int",
	Repr: func(o Object) (string, error) { return intStr(o), nil },
	Str:  func(o Object) (string, error) { return intStr(o), nil },
	Hash: func(o Object) (int64, error) { return intHash(o.(*IntObject)), nil },
	Bool: func(o Object) bool { return !intIsZero(o.(*IntObject)) },
	Compare: func(a, b Object) (CompareResult, error) {
		bi, ok := asIntLike(b)
		if !ok {
			return Unsupported, nil
		}
		return compareBig(asBig(a.(*IntObject)), bi), nil
	},
}

func intStr(o Object) string {
	io := o.(*IntObject)
	if io.big != nil {
		return io.big.String()
	}
	return strconv.FormatInt(io.small, 10)
}

func intIsZero(o *IntObject) bool {
	if o.big != nil {
		return o.big.Sign() == 0
	}
	return o.small == 0
}

// NewInt constructs a small IntObject.
func NewInt(v int64) Object {
	return &IntObject{Header: newHeader(IntType), small: v}
}

// NewIntFromBig constructs an IntObject from an arbitrary precision value,
// normalizing back to the small-int representation when it fits.
func NewIntFromBig(v *big.Int) Object {
	if v.IsInt64() {
		return NewInt(v.Int64())
	}
	return &IntObject{Header: newHeader(IntType), big: new(big.Int).Set(v)}
}

// asBig returns o's value as a *big.Int, converting the small path lazily.
func asBig(o *IntObject) *big.Int {
	if o.big != nil {
		return o.big
	}
	return big.NewInt(o.small)
}

func asIntLike(b Object) (*big.Int, bool) {
	switch v := b.(type) {
	case *IntObject:
		return asBig(v), true
	case *BoolObject:
		if v.val {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	default:
		return nil, false
	}
}

func compareBig(a, b *big.Int) CompareResult {
	switch a.Cmp(b) {
	case -1:
		return Less
	case 1:
		return Greater
	default:
		return Equal
	}
}

// intHash computes the integer hash: identity for values that fit the
// hash word, with the CPython-style −1 → −2 collision-avoidance sentinel
// (−1 is reserved internally to mean "hash not yet computed").
func intHash(o *IntObject) int64 {
	var h int64
	if o.big != nil {
		// Fold the big.Int's words; magnitude only needs to be stable and
		// collision-resistant, not reversible.
		h = 0
		for _, w := range o.big.Bits() {
			h = h*1000003 ^ int64(w)
		}
		if o.big.Sign() < 0 {
			h = -h
		}
	} else {
		h = o.small
	}
	if h == -1 {
		return -2
	}
	return h
}
