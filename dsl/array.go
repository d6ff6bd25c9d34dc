package dsl

import nsconnector "github.com/reoring/nsconnector"

// ListOf applies an object schema to every element of a list field.
type ListOf struct {
	elem *Schema
}

// Ensure ListOf can sit in a constraint chain.
var _ nsconnector.Constraint = ListOf{}

// Each returns a constraint that evaluates elem against every element of a
// list. Every element is checked; errors are reported under field[index].
// Combine with rules.Length to bound the number of elements.
func Each(elem *Schema) ListOf { return ListOf{elem: elem} }

// ConstraintKind implements nsconnector.Constraint.
func (ListOf) ConstraintKind() nsconnector.ConstraintKind { return nsconnector.ConstraintEach }

// Elem returns the element schema.
func (l ListOf) Elem() *Schema { return l.elem }
