package pyrt

import "fmt"

// ReprOf returns obj's repr string via its type's Repr hook, falling back
// to a generic "<TypeName object>" form for kinds that do not define one.
func ReprOf(obj Object) (string, error) {
	if obj == nil {
		return "None", nil
	}
	t := TypeOf(obj)
	if t != nil && t.Repr != nil {
		return t.Repr(obj)
	}
	return fmt.Sprintf("<%s object>", typeName(t)), nil
}

// StrOf returns obj's str string via its type's Str hook, falling back to
// Repr, matching Python's default object.__str__ delegating to __repr__.
func StrOf(obj Object) (string, error) {
	if obj == nil {
		return "None", nil
	}
	t := TypeOf(obj)
	if t != nil && t.Str != nil {
		return t.Str(obj)
	}
	return ReprOf(obj)
}
