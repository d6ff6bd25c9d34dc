package dsl_test

import (
	"reflect"
	"testing"

	json "github.com/goccy/go-json"

	g "github.com/reoring/nsconnector/dsl"
	r "github.com/reoring/nsconnector/rules"
)

func TestJSONSchema_Projection(t *testing.T) {
	js := price().JSONSchema()
	if js.Type != "object" || js.AdditionalProperties != true {
		t.Fatalf("unexpected root: %+v", js)
	}
	if !reflect.DeepEqual(js.Required, []string{"item_price", "item_tax_lines"}) {
		t.Fatalf("unexpected required: %v", js.Required)
	}
	if js.Properties["item_price"].Type != "number" {
		t.Fatalf("int|float must fold into number, got %v", js.Properties["item_price"].Type)
	}
	lines := js.Properties["item_tax_lines"]
	if lines.Type != "array" || lines.MinItems == nil || *lines.MinItems != 1 || lines.MaxItems != nil {
		t.Fatalf("unexpected list projection: %+v", lines)
	}
	rate := lines.Items.Properties["rate"]
	if rate.Minimum == nil || *rate.Minimum != 0 || rate.Maximum == nil || *rate.Maximum != 1 {
		t.Fatalf("unexpected rate bounds: %+v", rate)
	}
}

func TestJSONSchema_StringsEnumsAndNull(t *testing.T) {
	s := g.Object().
		Field("channel_type", r.Required(), r.IsType(r.String), r.IsIn("web", "mobile")).
		Field("customer_email", r.IsType(r.String), r.Email()).
		Field("product_id", r.IsType(r.String), r.Length(1, 64)).
		Field("coupon_code", r.Nullable(), r.IsType(r.String)).
		MustBuild()
	js := s.JSONSchema()

	ch := js.Properties["channel_type"]
	if !reflect.DeepEqual(ch.Enum, []any{"web", "mobile"}) {
		t.Fatalf("unexpected enum %v", ch.Enum)
	}
	if js.Properties["customer_email"].Format != "email" {
		t.Fatalf("expected email format")
	}
	pid := js.Properties["product_id"]
	if pid.MinLength == nil || *pid.MinLength != 1 || pid.MaxLength == nil || *pid.MaxLength != 64 {
		t.Fatalf("unexpected length: %+v", pid)
	}
	if !reflect.DeepEqual(js.Properties["coupon_code"].Type, []string{"string", "null"}) {
		t.Fatalf("expected nullable type, got %v", js.Properties["coupon_code"].Type)
	}

	b, err := json.Marshal(js)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["type"] != "object" {
		t.Fatalf("unexpected document %s", b)
	}
}

func TestJSONSchema_FloatOnlyFieldsAreAnnotated(t *testing.T) {
	js := taxLine().JSONSchema()
	rate := js.Properties["rate"]
	if rate.Type != "number" || rate.Description != g.FloatOnlyDescription {
		t.Fatalf("unexpected rate projection: %+v", rate)
	}
	if d := js.Properties["amount"].Description; d != "" {
		t.Fatalf("int|float field must not carry the float-only note, got %q", d)
	}

	// "number" admits both literals; evaluation accepts only the float one.
	doc := map[string]any{"amount": 1, "name": "VAT"}
	doc["rate"] = json.Number("1")
	res, _ := taxLine().Evaluate(doc)
	if iss := res.Issues(); len(iss) != 1 || iss[0].Path != "rate" || iss[0].Code != "invalid_type" {
		t.Fatalf("expected invalid_type at rate, got %+v", iss)
	}
	doc["rate"] = json.Number("1.0")
	if res, _ := taxLine().Evaluate(doc); !res.Valid() {
		t.Fatalf("expected 1.0 to pass, got %v", res.Errors())
	}
}
