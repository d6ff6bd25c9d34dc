package rules

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	validatorv10 "github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/i18n"
)

// Kind identifies the primitive a Rule was built from.
type Kind int

// KindInvalid is the kind of the zero Rule; chains reject it.
const (
	KindInvalid Kind = iota
	KindRequired
	KindNullable
	KindType
	KindLength
	KindMin
	KindMax
	KindIn
	KindEmail
	KindItems
)

var kindNames = [...]string{"invalid", "required", "nullable", "type", "length", "min", "max", "in", "email", "items"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Failure is the reason a Rule rejected a value.
type Failure struct {
	Code    string
	Message string
	Params  map[string]any
}

// Rule is an immutable, stateless constraint over a single field value.
// Construct it with one of the primitives below; the zero value is not usable.
type Rule struct {
	kind    Kind
	types   []Type
	minLen  int
	maxLen  int
	bound   float64
	allowed []any
}

// Ensure Rule can sit in a constraint chain.
var _ nsconnector.Constraint = Rule{}

// ConstraintKind implements nsconnector.Constraint.
func (Rule) ConstraintKind() nsconnector.ConstraintKind { return nsconnector.ConstraintRule }

// Kind reports the primitive this rule was built from.
func (r Rule) Kind() Kind { return r.kind }

// Types returns the accepted types of a type or items rule.
func (r Rule) Types() []Type { return append([]Type(nil), r.types...) }

// LengthBounds returns min and max of a length rule; max <= 0 means unbounded.
func (r Rule) LengthBounds() (int, int) { return r.minLen, r.maxLen }

// Bound returns the inclusive limit of a Min or Max rule.
func (r Rule) Bound() float64 { return r.bound }

// Allowed returns the enumerated values of a membership rule.
func (r Rule) Allowed() []any { return append([]any(nil), r.allowed...) }

// Required fails when the field is absent. Presence is key existence: an
// explicit null is present and passes.
func Required() Rule { return Rule{kind: KindRequired} }

// Nullable marks a field as accepting an explicit null. The evaluator skips
// the rest of the chain when the value is null; the rule itself never fails.
func Nullable() Rule { return Rule{kind: KindNullable} }

// IsType passes when the value's runtime type is one of types.
func IsType(types ...Type) Rule {
	return Rule{kind: KindType, types: append([]Type(nil), types...)}
}

// Length bounds the rune count of strings and the size of lists and objects.
// max <= 0 means no upper bound.
func Length(min, max int) Rule { return Rule{kind: KindLength, minLen: min, maxLen: max} }

// Min is an inclusive lower bound for numbers.
func Min(n float64) Rule { return Rule{kind: KindMin, bound: n} }

// Max is an inclusive upper bound for numbers.
func Max(n float64) Rule { return Rule{kind: KindMax, bound: n} }

// IsIn checks membership in an explicit set. Numbers compare by value.
func IsIn(allowed ...any) Rule {
	return Rule{kind: KindIn, allowed: append([]any(nil), allowed...)}
}

// Email checks that a string is a well-formed email address.
func Email() Rule { return Rule{kind: KindEmail} }

// Items checks that every element of a list is one of types. Non-list values
// skip.
func Items(types ...Type) Rule {
	return Rule{kind: KindItems, types: append([]Type(nil), types...)}
}

// formats is shared by format rules; *validator.Validate is safe for concurrent use.
var formats = validatorv10.New()

// Check evaluates the rule against one value. present reports whether the
// field key exists in the enclosing document. A nil result means pass.
// Every rule except Required passes on absent values.
func (r Rule) Check(v any, present bool) *Failure {
	if r.kind == KindRequired {
		if present {
			return nil
		}
		return fail(nsconnector.CodeRequired, nil, nil)
	}
	if !present {
		return nil
	}
	switch r.kind {
	case KindType:
		return r.checkType(v)
	case KindItems:
		for i, el := range ItemsOf(v) {
			if f := r.checkType(el); f != nil {
				f.Params["index"] = i
				return f
			}
		}
	case KindLength:
		n, ok := sizeOf(v)
		if !ok {
			return nil
		}
		if n < r.minLen {
			return fail(nsconnector.CodeTooShort,
				map[string]string{"min": strconv.Itoa(r.minLen)},
				map[string]any{"min": r.minLen, "got": n})
		}
		if r.maxLen > 0 && n > r.maxLen {
			return fail(nsconnector.CodeTooLong,
				map[string]string{"max": strconv.Itoa(r.maxLen)},
				map[string]any{"max": r.maxLen, "got": n})
		}
	case KindMin:
		// NaN has no order, so it never satisfies a bound.
		f, ok := ToFloat64(v)
		if ok && (math.IsNaN(f) || f < r.bound) {
			return fail(nsconnector.CodeTooSmall,
				map[string]string{"min": formatFloat(r.bound)},
				map[string]any{"min": r.bound, "got": gotParam(f)})
		}
	case KindMax:
		f, ok := ToFloat64(v)
		if ok && (math.IsNaN(f) || f > r.bound) {
			return fail(nsconnector.CodeTooBig,
				map[string]string{"max": formatFloat(r.bound)},
				map[string]any{"max": r.bound, "got": gotParam(f)})
		}
	case KindIn:
		for _, a := range r.allowed {
			if equal(v, a) {
				return nil
			}
		}
		allowed := joinValues(r.allowed)
		return fail(nsconnector.CodeInvalidEnum,
			map[string]string{"allowed": allowed},
			map[string]any{"allowed": r.Allowed(), "got": v})
	case KindEmail:
		s, ok := v.(string)
		if ok && formats.Var(s, "email") != nil {
			return fail(nsconnector.CodeInvalidFormat,
				map[string]string{"format": "email"},
				map[string]any{"format": "email"})
		}
	}
	return nil
}

// CheckElem applies the element type check of an Items rule to one element.
func (r Rule) CheckElem(el any) *Failure { return r.checkType(el) }

func (r Rule) checkType(v any) *Failure {
	got := TypeOf(v)
	for _, t := range r.types {
		if t == got {
			return nil
		}
	}
	expected := joinTypes(r.types)
	return fail(nsconnector.CodeInvalidType,
		map[string]string{"expected": expected, "got": got.String()},
		map[string]any{"expected": expected, "got": got.String()})
}

// ItemsOf returns the elements of a list value, or nil when v is not a list.
func ItemsOf(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func fail(code string, data map[string]string, params map[string]any) *Failure {
	return &Failure{Code: code, Message: i18n.T(code, data), Params: params}
}

// ------- helpers -------

// sizeOf returns the length of strings (in runes), lists and objects.
func sizeOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return utf8.RuneCountInString(t), true
	case []any:
		return len(t), true
	case map[string]any:
		return len(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	default:
		return 0, false
	}
}

// ToFloat64 converts any numeric value (including json.Number) to float64.
// json.Number literals beyond the float64 range become ±Inf; literals that do
// not parse become NaN. ok is false only for non-numeric values.
func ToFloat64(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return math.NaN(), true
		}
		return f, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// gotParam keeps issue params JSON-encodable: NaN and ±Inf are rendered as
// strings.
func gotParam(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatFloat(f)
	}
	return f
}

func equal(v, want any) bool {
	if fv, ok := ToFloat64(v); ok {
		if fw, ok := ToFloat64(want); ok {
			return fv == fw
		}
		return false
	}
	if v == nil || want == nil {
		return v == nil && want == nil
	}
	if reflect.TypeOf(v) != reflect.TypeOf(want) || !reflect.TypeOf(v).Comparable() {
		return false
	}
	return v == want
}

func isIntLike(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloatLike(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func joinTypes(ts []Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, "|")
}

func joinValues(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
