// Package dsl provides the schema builder and the recursive evaluator.
//
// Overview
//   - Builder API: declare fields in evaluation order with Object().Field(name, chain...).MustBuild().
//   - Constraint chains: a chain mixes rules.Rule values with at most one nested *Schema
//     (object field) or Each(schema) (list-of-objects field).
//   - Evaluation: (*Schema).Evaluate walks every declared field and aggregates failures into
//     a nsconnector.Result keyed by dotted/indexed field path.
//   - Static inspection: Fields/Field list the declared chains; JSONSchema projects the tree.
//
// Semantics
//   - rules.Required() must be the first element of a chain; Build rejects it elsewhere.
//   - Presence is key existence. Absent optional fields are valid whatever their chain says.
//   - A failing Required or type check stops the remaining rules of that field only.
//   - Lists are checked exhaustively: every element contributes its own issues.
//   - Keys not declared in the schema are ignored.
//   - An explicit null is a present value; rules.Nullable() accepts it and skips the rest
//     of the chain, otherwise type checks report it.
//
// Example
//
//	package main
//
//	import (
//	    "fmt"
//
//	    g "github.com/reoring/nsconnector/dsl"
//	    r "github.com/reoring/nsconnector/rules"
//	)
//
//	func taxLine() *g.Schema {
//	    return g.Object().
//	        Field("amount", r.Required(), r.IsType(r.Numeric...)).
//	        Field("rate", r.Required(), r.IsType(r.Float), r.Min(0), r.Max(1)).
//	        Field("name", r.Required(), r.IsType(r.String)).
//	        MustBuild()
//	}
//
//	func main() {
//	    price := g.Object().
//	        Field("item_price", r.Required(), r.IsType(r.Numeric...)).
//	        Field("item_tax_lines", r.Required(), r.IsType(r.List), r.Length(1, 0), g.Each(taxLine())).
//	        MustBuild()
//
//	    res, _ := price.Evaluate(map[string]any{
//	        "item_price":     10.0,
//	        "item_tax_lines": []any{map[string]any{"amount": 0.8, "rate": 1.5, "name": "VAT"}},
//	    })
//	    fmt.Println(res.Valid(), res.Errors())
//	    // false map[item_tax_lines[0].rate:[value must be less than or equal to 1]]
//	}
package dsl
