package pyrt

import (
	"math"
	"math/big"
	"strconv"
)

// FloatObject is a Python float (IEEE-754 double).
type FloatObject struct {
	Header
	val float64
}

// FloatType is float's type descriptor.
var FloatType = &Type{
	Name: "float",
	Repr: func(o Object) (string, error) { return floatStr(o.(*FloatObject).val), nil },
	Str:  func(o Object) (string, error) { return floatStr(o.(*FloatObject).val), nil },
	Hash: func(o Object) (int64, error) { return floatHash(o.(*FloatObject).val), nil },
	Bool: func(o Object) bool { return o.(*FloatObject).val != 0 },
	Compare: func(a, b Object) (CompareResult, error) {
		av := a.(*FloatObject).val
		bv, ok := asFloatLike(b)
		if !ok {
			return Unsupported, nil
		}
		// NaN compares unequal to everything, including itself, in a
		// scalar comparison.
		if math.IsNaN(av) || math.IsNaN(bv) {
			return Unsupported, nil
		}
		switch {
		case av < bv:
			return Less, nil
		case av > bv:
			return Greater, nil
		default:
			return Equal, nil
		}
	},
}

func floatStr(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	// Python always shows a float as a float: 3.0 not 3.
	hasDotOrExp := false
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			hasDotOrExp = true
			break
		}
	}
	if !hasDotOrExp {
		s += ".0"
	}
	return s
}

// NewFloat constructs a FloatObject.
func NewFloat(v float64) Object {
	return &FloatObject{Header: newHeader(FloatType), val: v}
}

func asFloatLike(b Object) (float64, bool) {
	switch v := b.(type) {
	case *FloatObject:
		return v.val, true
	case *IntObject:
		if v.big != nil {
			f, _ := new(big.Float).SetInt(v.big).Float64()
			return f, true
		}
		return float64(v.small), true
	case *BoolObject:
		if v.val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// floatHash implements the requirement that numerically equal
// int/float/bool values hash identically. For values that round-trip
// exactly through int64 this reduces to the int hash; non-integral floats
// and overflow-range values fall back to a bit-pattern hash, which still
// satisfies the weaker within-kind stability property tests rely on.
func floatHash(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	if v == math.Trunc(v) && v >= math.MinInt64 && v <= math.MaxInt64 {
		return intHash(&IntObject{small: int64(v)})
	}
	bits := math.Float64bits(v)
	h := int64(bits ^ (bits >> 32))
	if h == -1 {
		h = -2
	}
	return h
}
