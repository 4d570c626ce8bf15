package pyrt

import (
	"fmt"
	"math/cmplx"
)

// ComplexObject is a Python complex number.
type ComplexObject struct {
	Header
	val complex128
}

// ComplexType is complex's type descriptor. Its Arith hook is self
// contained (rather than routed through numeric.go's int/float tower)
// since complex does not participate in floor division or bitwise ops.
var ComplexType = &Type{
	Name: "complex",
	Repr: func(o Object) (string, error) { return complexStr(o.(*ComplexObject).val), nil },
	Str:  func(o Object) (string, error) { return complexStr(o.(*ComplexObject).val), nil },
	Hash: func(o Object) (int64, error) { return complexHash(o.(*ComplexObject).val), nil },
	Bool: func(o Object) bool { return o.(*ComplexObject).val != 0 },
	Compare: func(a, b Object) (CompareResult, error) {
		bo, ok := b.(*ComplexObject)
		if !ok {
			return Unsupported, nil
		}
		if a.(*ComplexObject).val == bo.val {
			return Equal, nil
		}
		// Complex numbers have no total order; anything other than
		// equality is unsupported (matches Python raising TypeError on <).
		return Unsupported, nil
	},
	Arith: func(op ArithOp, a, b Object) (Object, error) {
		av := toComplex(a)
		bv := toComplex(b)
		switch op {
		case OpAdd:
			return NewComplex(av + bv), nil
		case OpSub:
			return NewComplex(av - bv), nil
		case OpMul:
			return NewComplex(av * bv), nil
		case OpTrueDiv:
			if bv == 0 {
				return nil, &Error{Kind: KindZeroDivisionError, Message: "complex division by zero"}
			}
			return NewComplex(av / bv), nil
		case OpPow:
			return NewComplex(cmplx.Pow(av, bv)), nil
		default:
			return nil, &Error{Kind: KindTypeError, Message: "unsupported operand type(s) for complex"}
		}
	},
}

// NewComplex constructs a ComplexObject.
func NewComplex(v complex128) Object {
	return &ComplexObject{Header: newHeader(ComplexType), val: v}
}

func toComplex(o Object) complex128 {
	switch v := o.(type) {
	case *ComplexObject:
		return v.val
	default:
		f, _ := asFloatLike(o)
		return complex(f, 0)
	}
}

func complexStr(v complex128) string {
	re, im := real(v), imag(v)
	if re == 0 {
		return fmt.Sprintf("%sj", floatStr(im))
	}
	if im < 0 {
		return fmt.Sprintf("(%s%sj)", floatStr(re), floatStr(im))
	}
	return fmt.Sprintf("(%s+%sj)", floatStr(re), floatStr(im))
}

// complexHash folds the real and imaginary parts' hashes, matching
// Python's requirement that a complex with zero imaginary part hashes the
// same as the equivalent float/int.
func complexHash(v complex128) int64 {
	if imag(v) == 0 {
		return floatHash(real(v))
	}
	h := floatHash(real(v)) ^ (floatHash(imag(v)) * 1000003)
	if h == -1 {
		h = -2
	}
	return h
}
