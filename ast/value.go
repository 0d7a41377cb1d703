package ast

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	StringKind ValueKind = iota
	NumberKind
	BoolKind
	NullKind
	ObjectKind
	ArrayKind
	PathKind
)

func (k ValueKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "boolean"
	case NullKind:
		return "null"
	case ObjectKind:
		return "object"
	case ArrayKind:
		return "array"
	case PathKind:
		return "path"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is a literal in a Weave program: a string, double-precision
// number, boolean, null, object, array, or dotted path. Exactly the
// field matching Kind is meaningful.
type Value struct {
	Kind   ValueKind
	Str    string
	Num    float64
	Bool   bool
	Object map[string]Value
	Array  []Value
	Path   PathExpr
}

// String constructs a string value.
func String(s string) Value { return Value{Kind: StringKind, Str: s} }

// Number constructs a number value.
func Number(n float64) Value { return Value{Kind: NumberKind, Num: n} }

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{Kind: BoolKind, Bool: b} }

// Null constructs the null value.
func Null() Value { return Value{Kind: NullKind} }

// Object constructs an object value.
func Object(m map[string]Value) Value { return Value{Kind: ObjectKind, Object: m} }

// Array constructs an array value.
func Array(vs ...Value) Value { return Value{Kind: ArrayKind, Array: vs} }

// Path constructs a path value from dotted components.
func Path(components ...string) Value {
	return Value{Kind: PathKind, Path: PathExpr{Components: components}}
}

// AsString returns the string payload if the value is a string.
func (v Value) AsString() (string, bool) {
	if v.Kind == StringKind {
		return v.Str, true
	}
	return "", false
}

// AsNumber returns the numeric payload if the value is a number.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind == NumberKind {
		return v.Num, true
	}
	return 0, false
}

// native converts the value to plain Go data for serialization. Paths
// render in their dotted source form.
func (v Value) native() any {
	switch v.Kind {
	case StringKind:
		return v.Str
	case NumberKind:
		return v.Num
	case BoolKind:
		return v.Bool
	case NullKind:
		return nil
	case ObjectKind:
		m := make(map[string]any, len(v.Object))
		for k, e := range v.Object {
			m[k] = e.native()
		}
		return m
	case ArrayKind:
		a := make([]any, len(v.Array))
		for i, e := range v.Array {
			a[i] = e.native()
		}
		return a
	case PathKind:
		return v.Path.String()
	}
	return nil
}

// MarshalYAML renders the value as its natural YAML form.
func (v Value) MarshalYAML() (any, error) { return v.native(), nil }

// MarshalJSON renders the value as its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.native())
}

// String renders the value roughly in source syntax, for diagnostics.
func (v Value) String() string {
	switch v.Kind {
	case StringKind:
		return strconv.Quote(v.Str)
	case NumberKind:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.Bool)
	case NullKind:
		return "null"
	case ObjectKind:
		parts := make([]string, 0, len(v.Object))
		for k, e := range v.Object {
			parts = append(parts, k+": "+e.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case ArrayKind:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case PathKind:
		return v.Path.String()
	}
	return ""
}
