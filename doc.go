// Package nsconnector provides the validation core of the retail-commerce
// platform client:
//
// - A stable error model via Issues (dotted/indexed field path, code, message)
// - Result, the aggregate outcome of evaluating a schema against one document
// - Constraint, the element type of a field's constraint chain
// - PathRef for building field paths such as shipments[0].items[1].price
//
// Design policy:
// - Keep only the shared vocabulary in the root package.
// - Place rule primitives under rules/, the schema builder under dsl/, the
//   order schemas under orderinjection/ and the HTTP caller layer under
//   httpapi/ and connector/.
// - Validation never performs I/O; transport errors never surface as Issues.
//
// Typical usage:
//
//	s := orderinjection.OrderSchema()
//	res, err := s.Evaluate(payload)
//	if err != nil {
//	    // payload was not an object
//	}
//	if !res.Valid() {
//	    fmt.Println(res.Errors())
//	}
package nsconnector
