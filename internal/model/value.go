package model

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// ValueKind classifies a runtime value recorded by the instrumentation.
type ValueKind int

const (
	// ValueNone is the absent value (None/nil/null in the instrumented language).
	ValueNone ValueKind = iota
	// ValueInt is an integer.
	ValueInt
	// ValueFloat is a floating point number.
	ValueFloat
	// ValueBool is a boolean.
	ValueBool
	// ValueString is a text string.
	ValueString
	// ValueBytes is a byte string.
	ValueBytes
	// ValueOther is any other object, known only by type name and representation.
	ValueOther
)

// Type names used by the instrumentation for the built-in value kinds.
// TypeObject names values of an unknown type.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeStr    = "str"
	TypeBytes  = "bytes"
	TypeNone   = "NoneType"
	TypeObject = "object"
)

// Value is an immutable runtime value. Values are comparable with ==.
type Value struct {
	kind     ValueKind
	typeName string
	i        int64
	f        float64
	s        string
}

// NoneValue returns the absent value.
func NoneValue() Value { return Value{kind: ValueNone} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{kind: ValueInt, i: i} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{kind: ValueFloat, f: f} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	if b {
		return Value{kind: ValueBool, i: 1}
	}

	return Value{kind: ValueBool}
}

// StringValue wraps a text string.
func StringValue(s string) Value { return Value{kind: ValueString, s: s} }

// BytesValue wraps a byte string. The slice is copied.
func BytesValue(b []byte) Value { return Value{kind: ValueBytes, s: string(b)} }

// OtherValue wraps an object of an arbitrary type by its textual representation.
// An empty type name is recorded as TypeObject. Built-in type names belong to
// their own constructors.
func OtherValue(typeName, repr string) Value {
	if typeName == "" {
		typeName = TypeObject
	}

	return Value{kind: ValueOther, typeName: typeName, s: repr}
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsNone reports whether v is the absent value.
func (v Value) IsNone() bool { return v.kind == ValueNone }

// IsNumeric reports whether v belongs to the numeric class (int, float, bool).
func (v Value) IsNumeric() bool {
	return v.kind == ValueInt || v.kind == ValueFloat || v.kind == ValueBool
}

// Int returns the integer content of int and bool values.
func (v Value) Int() int64 { return v.i }

// Float returns the numeric content as a float.
func (v Value) Float() float64 {
	if v.kind == ValueFloat {
		return v.f
	}

	return float64(v.i)
}

// Bool returns the content of a bool value.
func (v Value) Bool() bool { return v.i != 0 }

// Str returns the content of string values and the representation of other values.
func (v Value) Str() string { return v.s }

// Bytes returns a copy of the content of a bytes value.
func (v Value) Bytes() []byte { return []byte(v.s) }

// TypeName returns the instrumentation type name of the value.
func (v Value) TypeName() string {
	switch v.kind {
	case ValueInt:
		return TypeInt
	case ValueFloat:
		return TypeFloat
	case ValueBool:
		return TypeBool
	case ValueString:
		return TypeStr
	case ValueBytes:
		return TypeBytes
	case ValueOther:
		return v.typeName
	default:
		return TypeNone
	}
}

// Encode renders the value in its event-log form. ParseValue(v.TypeName(), v.Encode())
// reproduces v exactly.
func (v Value) Encode() string {
	switch v.kind {
	case ValueInt:
		return strconv.FormatInt(v.i, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValueBool:
		if v.Bool() {
			return "True"
		}

		return "False"
	case ValueString, ValueOther:
		return v.s
	case ValueBytes:
		return base64.StdEncoding.EncodeToString([]byte(v.s))
	default:
		return ""
	}
}

func (v Value) String() string {
	if v.kind == ValueNone {
		return "None"
	}

	return v.Encode()
}

// ParseValue decodes a value from its event-log form given its type name.
func ParseValue(typeName, raw string) (Value, error) {
	switch typeName {
	case TypeInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid int %q: %w", raw, err)
		}

		return IntValue(i), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid float %q: %w", raw, err)
		}

		return FloatValue(f), nil
	case TypeBool:
		switch raw {
		case "True", "true", "1":
			return BoolValue(true), nil
		case "False", "false", "0":
			return BoolValue(false), nil
		}

		return Value{}, fmt.Errorf("invalid bool %q", raw)
	case TypeStr:
		return StringValue(raw), nil
	case TypeBytes:
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return Value{}, fmt.Errorf("invalid bytes %q: %w", raw, err)
		}

		return BytesValue(b), nil
	case TypeNone:
		return NoneValue(), nil
	case "":
		if raw == "" {
			return NoneValue(), nil
		}

		return OtherValue("", raw), nil
	default:
		return OtherValue(typeName, raw), nil
	}
}
