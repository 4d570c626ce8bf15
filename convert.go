package pyrt

import "fmt"

// ObjectFromGo converts a Go-native value produced by the evaluation
// cache's interpreter (goja's Value.Export(), a plain nil/bool/int64/
// float64/string/[]interface{}/map[string]interface{} tree) into a
// ref-counted Object participating in this package's refcounting ABI.
// The returned Object carries one owned reference, the same convention
// every other constructor in this package follows.
func ObjectFromGo(v any) (Object, error) {
	switch t := v.(type) {
	case nil:
		Incref(None())
		return None(), nil
	case bool:
		if t {
			Incref(True())
			return True(), nil
		}
		Incref(False())
		return False(), nil
	case int64:
		return NewInt(t), nil
	case int:
		return NewInt(int64(t)), nil
	case float64:
		return NewFloat(t), nil
	case string:
		return NewStr(t), nil
	case []interface{}:
		elems := make([]Object, 0, len(t))
		for _, e := range t {
			obj, err := ObjectFromGo(e)
			if err != nil {
				for _, el := range elems {
					Decref(el, DefaultAllocator())
				}
				return nil, err
			}
			elems = append(elems, obj)
		}
		return NewList(elems...), nil
	case map[string]interface{}:
		d := NewDict()
		for k, e := range t {
			val, err := ObjectFromGo(e)
			if err != nil {
				Decref(d, DefaultAllocator())
				return nil, err
			}
			key := NewStr(k)
			setErr := DictType.SetItem(d, key, val)
			Decref(key, DefaultAllocator())
			Decref(val, DefaultAllocator())
			if setErr != nil {
				Decref(d, DefaultAllocator())
				return nil, setErr
			}
		}
		return d, nil
	default:
		return nil, &Error{Kind: KindTypeError, Message: fmt.Sprintf("cannot convert %T to a pyrt object", v)}
	}
}
