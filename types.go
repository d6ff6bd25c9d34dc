package nsconnector

// ConstraintKind distinguishes the three element kinds of a constraint chain.
type ConstraintKind int

const (
	ConstraintRule   ConstraintKind = iota // An atomic rule evaluated against the field value.
	ConstraintObject                       // A nested object schema.
	ConstraintEach                         // A schema applied to every element of a list.
)

// Constraint is one element of a field's constraint chain. Implementations
// live in rules (rules.Rule) and dsl (*dsl.Schema, dsl.Each).
type Constraint interface {
	ConstraintKind() ConstraintKind
}

// DefaultMaxDepth bounds recursion when EvalOpt.MaxDepth is zero.
const DefaultMaxDepth = 32

// EvalOpt bundles evaluation options.
type EvalOpt struct {
	// MaxDepth limits the nesting depth (in path segments) the evaluator
	// descends into. Deeper values are reported with CodeTooDeep. Zero uses
	// DefaultMaxDepth; a negative value disables the guard.
	MaxDepth int
}

// ResolveEvalOpt returns the effective options, the last one winning.
func ResolveEvalOpt(opts ...EvalOpt) EvalOpt {
	var opt EvalOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxDepth == 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	return opt
}
