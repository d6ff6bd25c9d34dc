package rules

import (
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// Type is the runtime type of a JSON-like value as seen by IsType.
type Type int

const (
	Unknown Type = iota
	String
	Int
	Float
	Bool
	Object
	List
	Null
)

var typeNames = [...]string{"unknown", "string", "int", "float", "bool", "object", "list", "null"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Numeric is shorthand for the types accepted by numeric fields.
var Numeric = []Type{Int, Float}

// TypeOf classifies a decoded value. Go integer kinds and integer literals in
// json.Number are Int; float kinds and fractional or exponent literals are
// Float.
func TypeOf(v any) Type {
	switch t := v.(type) {
	case nil:
		return Null
	case string:
		return String
	case bool:
		return Bool
	case json.Number:
		if strings.ContainsAny(string(t), ".eE") {
			return Float
		}
		return Int
	case map[string]any:
		return Object
	case []any:
		return List
	}
	rv := reflect.ValueOf(v)
	switch {
	case isIntLike(rv.Kind()):
		return Int
	case isFloatLike(rv.Kind()):
		return Float
	case rv.Kind() == reflect.String:
		return String
	case rv.Kind() == reflect.Bool:
		return Bool
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		return Object
	case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
		return List
	default:
		return Unknown
	}
}
