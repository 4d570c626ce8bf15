package pyrt

import "testing"

func TestIncrefDecrefLifecycle(t *testing.T) {
	alloc := &MockAllocator{}
	obj := NewInt(42)
	if RefCount(obj) != 1 {
		t.Fatalf("RefCount = %d, want 1", RefCount(obj))
	}
	Incref(obj)
	if RefCount(obj) != 2 {
		t.Fatalf("RefCount after Incref = %d, want 2", RefCount(obj))
	}
	Decref(obj, alloc)
	if RefCount(obj) != 1 {
		t.Fatalf("RefCount after one Decref = %d, want 1", RefCount(obj))
	}
	Decref(obj, alloc)
	if RefCount(obj) != 0 {
		t.Fatalf("RefCount after second Decref = %d, want 0", RefCount(obj))
	}
}

func TestImmortalSingletonsNeverChangeRefcount(t *testing.T) {
	for _, obj := range []Object{None(), True(), False()} {
		before := RefCount(obj)
		Incref(obj)
		Decref(obj, DefaultAllocator())
		Decref(obj, DefaultAllocator())
		if RefCount(obj) != before {
			t.Fatalf("immortal object refcount changed: before=%d after=%d", before, RefCount(obj))
		}
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		obj  Object
		want bool
	}{
		{NewInt(0), false},
		{NewInt(1), true},
		{NewStr(""), false},
		{NewStr("x"), true},
		{None(), false},
		{True(), true},
		{False(), false},
		{NewList(), false},
		{NewList(NewInt(1)), true},
	}
	for _, c := range cases {
		if got := Truthy(c.obj); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.obj, got, c.want)
		}
	}
}

func TestContainerInsertionAndRetrieval(t *testing.T) {
	d := NewDict()
	key := NewStr("a")
	val := NewInt(1)
	if err := DictType.SetItem(d, key, val); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	got, err := DictType.GetItem(d, NewStr("a"))
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if RefCount(got) < 1 {
		t.Fatal("GetItem did not return an incref'd reference")
	}
	if !Equal(got, val) {
		t.Fatalf("GetItem returned %v, want equal to %v", got, val)
	}
}

func TestHashStabilityAcrossInstances(t *testing.T) {
	h1, ok1 := Hash(NewStr("hello"))
	h2, ok2 := Hash(NewStr("hello"))
	if !ok1 || !ok2 {
		t.Fatal("Hash failed for a plain string")
	}
	if h1 != h2 {
		t.Fatalf("hash(s) != hash(copy(s)): %d != %d", h1, h2)
	}
}

func TestNumericHashEqualityAcrossKinds(t *testing.T) {
	hi, _ := Hash(NewInt(1))
	hf, _ := Hash(NewFloat(1.0))
	hb, _ := Hash(True())
	if hi != hf || hf != hb {
		t.Fatalf("hash(1)=%d hash(1.0)=%d hash(True)=%d, want all equal", hi, hf, hb)
	}
}

func TestUnhashableSetSurfacesTypeError(t *testing.T) {
	s := NewSet()
	ClearException()
	if _, ok := Hash(s); ok {
		t.Fatal("Hash(set) succeeded, want failure")
	}
	exc, ok := GetException()
	if !ok || exc.Kind != KindTypeError {
		t.Fatalf("expected TypeError, got %v, ok=%v", exc, ok)
	}
	ClearException()
}
