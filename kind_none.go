package pyrt

// NoneObject is the single instance of Python's None.
type NoneObject struct {
	Header
}

// NoneType is None's type descriptor.
var NoneType = &Type{
	Name: "NoneType",
	Repr: func(Object) (string, error) { return "None", nil },
	Str:  func(Object) (string, error) { return "None", nil },
	Hash: func(Object) (int64, error) { return noneHash, nil },
	Bool: func(Object) bool { return false },
	Compare: func(a, b Object) (CompareResult, error) {
		if IsType(b, NoneType) {
			return Equal, nil
		}
		return Unsupported, nil
	},
}

// noneHash is an arbitrary fixed hash for the None singleton.
const noneHash = 0x1c3a7e5f

var none = &NoneObject{Header: newHeader(NoneType)}

func init() {
	markImmortal(&none.Header)
}

// None returns the process-wide None singleton. Callers do not need to
// Incref it (Incref is already a no-op on immortal objects) but may do so
// for symmetry with non-immortal construction sites.
func None() Object { return none }

// IsNone reports whether obj is the None singleton.
func IsNone(obj Object) bool { return obj == Object(none) }
