package pyrt

import (
	"math"
	"math/big"
	"testing"
)

func TestTrueDivisionAlwaysFloat(t *testing.T) {
	result, ok := Arith(OpTrueDiv, NewInt(7), NewInt(2))
	if !ok {
		t.Fatalf("Arith failed: %v", mustException(t))
	}
	if _, isFloat := result.(*FloatObject); !isFloat {
		t.Fatalf("true division of two ints returned %T, want *FloatObject", result)
	}
}

func TestFloorDivisionSignOfDivisor(t *testing.T) {
	result, ok := Arith(OpFloorDiv, NewInt(-7), NewInt(2))
	if !ok {
		t.Fatalf("Arith failed: %v", mustException(t))
	}
	got := result.(*IntObject)
	if got.small != -4 {
		t.Fatalf("-7 // 2 = %d, want -4", got.small)
	}
}

func TestModuloSignOfDivisor(t *testing.T) {
	result, ok := Arith(OpMod, NewInt(-7), NewInt(2))
	if !ok {
		t.Fatalf("Arith failed: %v", mustException(t))
	}
	got := result.(*IntObject)
	if got.small != 1 {
		t.Fatalf("-7 %% 2 = %d, want 1", got.small)
	}
}

func TestPowSpecialCases(t *testing.T) {
	// pow(-1, very-large-even) == 1
	bigEven := new(big.Int).Lsh(big.NewInt(1), 200) // 2^200, even
	r := intPow(big.NewInt(-1), bigEven)
	if r.(*IntObject).small != 1 {
		t.Fatalf("pow(-1, 2^200) = %v, want 1", r)
	}

	// pow(1, anything) == 1
	r2, ok := Arith(OpPow, NewInt(1), NewFloat(1e300))
	if !ok {
		t.Fatalf("Arith failed: %v", mustException(t))
	}
	if r2.(*FloatObject).val != 1 {
		t.Fatalf("pow(1, 1e300) = %v, want 1", r2)
	}

	// pow(x, 0) == 1
	r3, ok := Arith(OpPow, NewFloat(123.456), NewInt(0))
	if !ok {
		t.Fatalf("Arith failed: %v", mustException(t))
	}
	if r3.(*FloatObject).val != 1 {
		t.Fatalf("pow(123.456, 0) = %v, want 1", r3)
	}
}

func TestIntegerOverflowWidensToBig(t *testing.T) {
	huge := NewInt(math.MaxInt64)
	result, ok := Arith(OpAdd, huge, NewInt(1))
	if !ok {
		t.Fatalf("Arith failed: %v", mustException(t))
	}
	io := result.(*IntObject)
	if io.big == nil {
		t.Fatal("MaxInt64+1 did not widen to math/big")
	}
}

func TestFloatDivisionByZeroIsIEEEInf(t *testing.T) {
	result, ok := Arith(OpTrueDiv, NewFloat(1), NewFloat(0))
	if !ok {
		t.Fatalf("float division by zero unexpectedly failed: %v", mustException(t))
	}
	if !math.IsInf(result.(*FloatObject).val, 1) {
		t.Fatalf("1.0/0.0 = %v, want +Inf", result.(*FloatObject).val)
	}
}

func TestIntDivisionByZeroRaises(t *testing.T) {
	ClearException()
	_, ok := Arith(OpTrueDiv, NewInt(1), NewInt(0))
	if ok {
		t.Fatal("int division by zero unexpectedly succeeded")
	}
	exc, has := GetException()
	if !has || exc.Kind != KindZeroDivisionError {
		t.Fatalf("expected ZeroDivisionError, got %v", exc)
	}
	ClearException()
}

func TestNaNComparesUnequalToItself(t *testing.T) {
	nan := NewFloat(math.NaN())
	if Equal(nan, nan) {
		t.Fatal("NaN compared equal to itself in a scalar comparison")
	}
}

func mustException(t *testing.T) string {
	t.Helper()
	exc, ok := GetException()
	if !ok {
		return "<none>"
	}
	return exc.Error()
}
