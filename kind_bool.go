package pyrt

// BoolObject is a boxed Python bool. Only the True and False singletons
// below are ever constructed; there is no public constructor.
type BoolObject struct {
	Header
	val bool
}

// BoolType is bool's type descriptor. bool is a subtype of int in
// Python proper; this runtime keeps it a distinct kind, with
// int/float/complex/bool treated as siblings under Arith, routing
// bool's arithmetic through IntType by converting at the call site in
// numeric.go.
var BoolType = &Type{
	Name: "bool",
	Repr: func(o Object) (string, error) { return boolStr(o), nil },
	Str:  func(o Object) (string, error) { return boolStr(o), nil },
	Hash: func(o Object) (int64, error) {
		if o.(*BoolObject).val {
			return 1, nil
		}
		return 0, nil
	},
	Bool: func(o Object) bool { return o.(*BoolObject).val },
	Compare: func(a, b Object) (CompareResult, error) {
		av, bv := a.(*BoolObject).val, asBoolLike(b)
		if bv == nil {
			return Unsupported, nil
		}
		switch {
		case av == *bv:
			return Equal, nil
		case !av && *bv:
			return Less, nil
		default:
			return Greater, nil
		}
	},
}

func boolStr(o Object) string {
	if o.(*BoolObject).val {
		return "True"
	}
	return "False"
}

// asBoolLike extracts a bool value from b if b is itself a BoolObject.
// Comparisons against ints and floats are handled by Compare's reflected
// call into IntType's or FloatType's Compare hook, which accept bools.
func asBoolLike(b Object) *bool {
	bo, ok := b.(*BoolObject)
	if !ok {
		return nil
	}
	return &bo.val
}

var (
	trueObj  = &BoolObject{Header: newHeader(BoolType), val: true}
	falseObj = &BoolObject{Header: newHeader(BoolType), val: false}
)

func init() {
	markImmortal(&trueObj.Header)
	markImmortal(&falseObj.Header)
}

// True returns the True singleton.
func True() Object { return trueObj }

// False returns the False singleton.
func False() Object { return falseObj }

// BoolFromGo returns the True or False singleton matching v.
func BoolFromGo(v bool) Object {
	if v {
		return trueObj
	}
	return falseObj
}

// AsBool extracts the Go bool value of a BoolObject. Panics if obj is not
// a bool; callers must check IsType(obj, BoolType) or know the kind from
// context first.
func AsBool(obj Object) bool { return obj.(*BoolObject).val }
