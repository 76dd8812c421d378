package params

import (
	"encoding/json"
	"strconv"
)

// Type enumerates the closed set of parameter types a template can declare.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

func (t Type) valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return true
	}
	return false
}

// Value is a closed tagged variant holding one resolved parameter value.
// Coercion in Resolve is a pure function over this variant; there is no
// runtime duck-typing downstream of the resolver.
type Value struct {
	kind Type
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  map[string]any
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: TypeString, str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: TypeNumber, num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: TypeBoolean, b: b} }

// ArrayValue wraps a list of values.
func ArrayValue(items ...Value) Value { return Value{kind: TypeArray, arr: items} }

// ObjectValue wraps an opaque object.
func ObjectValue(obj map[string]any) Value { return Value{kind: TypeObject, obj: obj} }

// Kind reports the variant's type tag.
func (v Value) Kind() Type { return v.kind }

// String returns the string payload. Valid only for TypeString.
func (v Value) String() string { return v.str }

// Number returns the numeric payload. Valid only for TypeNumber.
func (v Value) Number() float64 { return v.num }

// Bool returns the boolean payload. Valid only for TypeBoolean.
func (v Value) Bool() bool { return v.b }

// Array returns the element values. Valid only for TypeArray.
func (v Value) Array() []Value { return v.arr }

// Object returns the opaque object payload. Valid only for TypeObject.
func (v Value) Object() map[string]any { return v.obj }

// Interface flattens the variant into the plain Go form the renderer's
// scope chain understands: string, float64, bool, []any, map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case TypeString:
		return v.str
	case TypeNumber:
		return v.num
	case TypeBoolean:
		return v.b
	case TypeArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case TypeObject:
		return v.obj
	default:
		return nil
	}
}

// Text is the canonical textual form used when a value lands in a string
// position, matching the renderer's stringification.
func (v Value) Text() string {
	switch v.kind {
	case TypeString:
		return v.str
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case TypeBoolean:
		return strconv.FormatBool(v.b)
	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// MarshalJSON serialises the underlying value, not the variant envelope,
// so resolved sets embed naturally in metadata records.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
