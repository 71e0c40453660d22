package fragment

import "reflect"

// ScalarValueSource is implemented by domain values whose bound representation
// differs from the value itself.
type ScalarValueSource interface {
	SQLValue() any
}

// Enum is implemented by enumerated values bound by their canonical name.
type Enum interface {
	EnumName() string
}

// Failer is implemented by producers that may carry a construction error.
type Failer interface {
	Err() error
}

// Scalar returns what Append would bind for a non-fragment value.
func Scalar(v any) any {
	switch t := v.(type) {
	case ScalarValueSource:
		return t.SQLValue()
	case Enum:
		return t.EnumName()
	}
	return v
}

// Elements reports whether v is a slice or array and returns its elements.
// Byte slices and byte arrays (raw bytes, UUIDs) are scalars.
func Elements(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// IsNull reports whether v is nil or a nil pointer.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
