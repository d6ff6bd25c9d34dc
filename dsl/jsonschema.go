package dsl

import (
	js "github.com/reoring/nsconnector/jsonschema"
	"github.com/reoring/nsconnector/rules"
)

// JSONSchema projects the schema into a JSON Schema representation. Unknown
// keys are accepted at runtime, so additionalProperties is always true.
func (s *Schema) JSONSchema() *js.Schema {
	props := make(map[string]*js.Schema, len(s.fields))
	var req []string
	for _, f := range s.fields {
		props[f.name] = fieldJSONSchema(f)
		if f.required {
			req = append(req, f.name)
		}
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: true}
}

func fieldJSONSchema(f field) *js.Schema {
	out := &js.Schema{}
	var types []string
	var lengths []rules.Rule
	for _, c := range f.chain {
		switch c := c.(type) {
		case rules.Rule:
			switch c.Kind() {
			case rules.KindType:
				types = append(types, mapTypes(c.Types())...)
				if floatOnly(c.Types()) {
					out.Description = FloatOnlyDescription
				}
			case rules.KindLength:
				lengths = append(lengths, c)
			case rules.KindMin:
				v := c.Bound()
				out.Minimum = &v
			case rules.KindMax:
				v := c.Bound()
				out.Maximum = &v
			case rules.KindIn:
				out.Enum = c.Allowed()
			case rules.KindEmail:
				out.Format = "email"
			case rules.KindItems:
				item := &js.Schema{}
				its := normalizeTypes(mapTypes(c.Types()))
				if len(its) == 1 {
					item.Type = its[0]
				} else if len(its) > 1 {
					item.Type = its
				}
				out.Items = item
			}
		case *Schema:
			nested := c.JSONSchema()
			out.Properties = nested.Properties
			out.Required = nested.Required
			out.AdditionalProperties = nested.AdditionalProperties
			types = append(types, "object")
		case ListOf:
			out.Items = c.elem.JSONSchema()
			types = append(types, "array")
		}
	}
	types = normalizeTypes(types)
	if f.nullable && len(types) > 0 {
		types = append(types, "null")
	}
	for _, l := range lengths {
		applyLength(out, primaryType(types), l)
	}
	switch len(types) {
	case 0:
	case 1:
		out.Type = types[0]
	default:
		out.Type = types
	}
	return out
}

// FloatOnlyDescription annotates fields that accept floats but not ints.
// JSON Schema "number" admits 1, while evaluation classifies it as int; only
// literals with a fraction or exponent (1.0, 1e0) pass.
const FloatOnlyDescription = "float literal required: integer literals such as 1 are rejected, write 1.0"

func floatOnly(ts []rules.Type) bool {
	float := false
	for _, t := range ts {
		switch t {
		case rules.Int:
			return false
		case rules.Float:
			float = true
		}
	}
	return float
}

func mapTypes(ts []rules.Type) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, jsonType(t))
	}
	return out
}

func jsonType(t rules.Type) string {
	switch t {
	case rules.String:
		return "string"
	case rules.Int:
		return "integer"
	case rules.Float:
		return "number"
	case rules.Bool:
		return "boolean"
	case rules.Object:
		return "object"
	case rules.List:
		return "array"
	case rules.Null:
		return "null"
	default:
		return ""
	}
}

// normalizeTypes drops duplicates and folds integer into number when both appear.
func normalizeTypes(in []string) []string {
	seen := map[string]bool{}
	for _, t := range in {
		seen[t] = true
	}
	if seen["integer"] && seen["number"] {
		delete(seen, "integer")
	}
	var out []string
	for _, t := range in {
		if t == "" || !seen[t] {
			continue
		}
		out = append(out, t)
		delete(seen, t)
	}
	return out
}

func primaryType(types []string) string {
	for _, t := range types {
		if t == "array" || t == "object" {
			return t
		}
	}
	return "string"
}

func applyLength(out *js.Schema, typ string, l rules.Rule) {
	mn, mx := l.LengthBounds()
	var minp, maxp *int
	if mn > 0 {
		minp = &mn
	}
	if mx > 0 {
		maxp = &mx
	}
	switch typ {
	case "array":
		out.MinItems, out.MaxItems = minp, maxp
	case "object":
		out.MinProperties, out.MaxProperties = minp, maxp
	default:
		out.MinLength, out.MaxLength = minp, maxp
	}
}
