package orderinjection_test

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/dsl"
	"github.com/reoring/nsconnector/orderinjection"
	"github.com/reoring/nsconnector/source"
)

func loadFixture(t *testing.T, name string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	doc, err := source.JSONBytes(b, source.Options{})
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	m, ok := doc.Object()
	if !ok {
		t.Fatalf("fixture %s is not an object", name)
	}
	return m
}

func taxLine(rate any) map[string]any {
	return map[string]any{"amount": 0.8, "rate": rate, "name": "VAT"}
}

func shipment(shippingPrice any) map[string]any {
	return map[string]any{
		"items": []any{map[string]any{
			"external_item_id": "line-1",
			"product_id":       "SKU-1",
			"price": map[string]any{
				"item_price":      10.0,
				"item_list_price": 12.0,
				"item_tax_lines":  []any{taxLine(0.08)},
			},
		}},
		"shipping_option": map[string]any{
			"service_level_identifier": "std",
			"price":                    shippingPrice,
			"tax":                      0.4,
		},
	}
}

func minimalOrder() map[string]any {
	return map[string]any{
		"external_id":  "WEB-1",
		"shop":         "storefront",
		"channel_type": "web",
		"channel_name": "webstore",
		"shop_locale":  "en-US",
		"currency":     "USD",
		"shipments":    []any{shipment(5.0)},
	}
}

func evaluate(t *testing.T, doc map[string]any) nsconnector.Result {
	t.Helper()
	res, err := orderinjection.OrderSchema().Evaluate(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestOrder_ConcreteScenarioIsValid(t *testing.T) {
	res := evaluate(t, minimalOrder())
	if !res.Valid() {
		t.Fatalf("expected valid, got %v", res.Errors())
	}
}

func TestOrder_UnknownChannelType(t *testing.T) {
	doc := minimalOrder()
	doc["channel_type"] = "tablet"
	res := evaluate(t, doc)
	if res.Valid() {
		t.Fatalf("expected invalid")
	}
	if got := res.Paths(); !reflect.DeepEqual(got, []string{"channel_type"}) {
		t.Fatalf("expected exactly channel_type, got %v", got)
	}
}

func TestOrder_MissingRequired(t *testing.T) {
	for _, key := range []string{"external_id", "shop", "channel_type", "channel_name", "shop_locale", "currency", "shipments"} {
		doc := minimalOrder()
		delete(doc, key)
		res := evaluate(t, doc)
		if _, ok := res.Errors()[key]; !ok || res.Valid() {
			t.Fatalf("missing %s: expected error at %s, got %v", key, key, res.Errors())
		}
	}
}

func TestOrder_ListExpansion(t *testing.T) {
	doc := minimalOrder()
	doc["shipments"] = []any{shipment(5.0), shipment(-1.0), shipment(0)}
	res := evaluate(t, doc)
	if got := res.Paths(); !reflect.DeepEqual(got, []string{"shipments[1].shipping_option.price"}) {
		t.Fatalf("expected only shipments[1].shipping_option.price, got %v", got)
	}
}

func TestOrder_RateBoundaries(t *testing.T) {
	cases := []struct {
		rate  any
		valid bool
	}{
		{1.0, true},
		{0.0, true},
		{1.0001, false},
		{-0.01, false},
	}
	for _, tc := range cases {
		doc := minimalOrder()
		s := shipment(5.0)
		price := s["items"].([]any)[0].(map[string]any)["price"].(map[string]any)
		price["item_tax_lines"] = []any{taxLine(tc.rate)}
		doc["shipments"] = []any{s}
		res := evaluate(t, doc)
		if res.Valid() != tc.valid {
			t.Fatalf("rate %v: expected valid=%v, got %v", tc.rate, tc.valid, res.Errors())
		}
		if !tc.valid {
			want := "shipments[0].items[0].price.item_tax_lines[0].rate"
			if got := res.Paths(); !reflect.DeepEqual(got, []string{want}) {
				t.Fatalf("rate %v: expected %s, got %v", tc.rate, want, got)
			}
		}
	}
}

func TestOrder_Exhaustive(t *testing.T) {
	doc := minimalOrder()
	doc["currency"] = "XXX"
	doc["customer_email"] = "nope"
	doc["customer_language"] = "eng"
	doc["price_method"] = "gross"
	doc["is_offline"] = "yes"
	doc["notification_blacklist"] = []any{"a", 1}
	res := evaluate(t, doc)
	want := []string{
		"currency",
		"customer_email",
		"customer_language",
		"price_method",
		"is_offline",
		"notification_blacklist[1]",
	}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOrder_UnknownFieldTolerated(t *testing.T) {
	doc := minimalOrder()
	doc["loyalty_tier"] = "gold"
	if res := evaluate(t, doc); !res.Valid() {
		t.Fatalf("expected valid, got %v", res.Errors())
	}
}

func TestOrder_EmptyShipmentsAllowed(t *testing.T) {
	doc := minimalOrder()
	doc["shipments"] = []any{}
	if res := evaluate(t, doc); !res.Valid() {
		t.Fatalf("expected valid, got %v", res.Errors())
	}
}

func TestOrder_Fixtures(t *testing.T) {
	res := evaluate(t, loadFixture(t, "valid_order_payload.json"))
	if !res.Valid() {
		t.Fatalf("valid fixture rejected: %v", res.Errors())
	}
	res = evaluate(t, loadFixture(t, "invalid_order_payload.json"))
	if len(res.Errors()) != 1 {
		t.Fatalf("expected exactly one error, got %v", res.Errors())
	}
	if _, ok := res.Errors()["shipments[0].shipping_option.price"]; !ok {
		t.Fatalf("unexpected error paths %v", res.Paths())
	}
}

func TestAddressSchema(t *testing.T) {
	s := orderinjection.AddressSchema()
	res, _ := s.Evaluate(map[string]any{"country": "USA", "address_line_1": ""})
	want := []string{"country", "address_line_1"}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	long := make([]byte, 33)
	for i := range long {
		long[i] = '1'
	}
	res, _ = s.Evaluate(map[string]any{"country": "US", "address_line_1": "x", "zip_code": string(long)})
	if got := res.Paths(); !reflect.DeepEqual(got, []string{"zip_code"}) {
		t.Fatalf("expected zip_code, got %v", got)
	}
}

func TestItemSchema(t *testing.T) {
	s := orderinjection.ItemSchema()
	res, _ := s.Evaluate(map[string]any{"external_item_id": "a", "product_id": "", "gift_wrapping": "no"})
	want := []string{"product_id", "price", "gift_wrapping"}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPriceSchema(t *testing.T) {
	s := orderinjection.PriceSchema()
	res, _ := s.Evaluate(map[string]any{"item_price": "10", "item_list_price": 12, "item_tax_lines": []any{}})
	want := []string{"item_price", "item_tax_lines"}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTaxLineSchema_RateMustBeFloat(t *testing.T) {
	res, _ := orderinjection.TaxLineSchema().Evaluate(map[string]any{"amount": 1, "rate": 1, "name": "VAT", "country_code": "USA"})
	want := []string{"rate", "country_code"}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDiscountSchema(t *testing.T) {
	res, _ := orderinjection.DiscountSchema().Evaluate(map[string]any{
		"discount_ref":     "d",
		"type":             "percentage",
		"original_value":   -1,
		"price_adjustment": 0,
	})
	want := []string{"type", "original_value"}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestShippingOptionSchema(t *testing.T) {
	res, _ := orderinjection.ShippingOptionSchema().Evaluate(map[string]any{
		"service_level_identifier": "std",
		"price":                    0,
		"tax":                      0,
		"routing_strategy":         map[string]any{},
		"discount_info":            []any{map[string]any{}},
	})
	want := []string{
		"discount_info[0].discount_ref",
		"discount_info[0].type",
		"discount_info[0].original_value",
		"discount_info[0].price_adjustment",
		"routing_strategy.strategy",
	}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPaymentSchema(t *testing.T) {
	valid := map[string]any{
		"type":            "authorized",
		"amount":          0.01,
		"method":          "card",
		"processed_at":    "2024-01-01T00:00:00Z",
		"processor":       "adyen",
		"correlation_ref": "c-1",
	}
	if res, _ := orderinjection.PaymentSchema().Evaluate(valid); !res.Valid() {
		t.Fatalf("expected valid, got %v", res.Errors())
	}
	meta := map[string]any{}
	for i := 0; i < 101; i++ {
		meta[string(rune('a'+i%26))+string(rune('0'+i/26))] = i
	}
	valid["amount"] = 0
	valid["metadata"] = meta
	res, _ := orderinjection.PaymentSchema().Evaluate(valid)
	want := []string{"amount", "metadata"}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtendedAttributeSchema(t *testing.T) {
	res, _ := orderinjection.ExtendedAttributeSchema().Evaluate(map[string]any{"name": ""})
	want := []string{"name", "value"}
	if got := res.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBuildersReturnFreshSchemas(t *testing.T) {
	if orderinjection.OrderSchema() == orderinjection.OrderSchema() {
		t.Fatalf("builders must not memoize")
	}
}

func TestBounds_HoldForNonFiniteNumbers(t *testing.T) {
	decodeJSON := func(s string) map[string]any {
		doc, err := source.JSONBytes([]byte(s), source.Options{})
		if err != nil {
			t.Fatalf("decode %s: %v", s, err)
		}
		m, _ := doc.Object()
		return m
	}
	decodeYAML := func(s string) map[string]any {
		doc, err := source.YAMLBytes([]byte(s), source.Options{})
		if err != nil {
			t.Fatalf("decode %s: %v", s, err)
		}
		m, _ := doc.Object()
		return m
	}
	cases := []struct {
		name   string
		schema func() *dsl.Schema
		doc    map[string]any
		path   string
		codes  []string
	}{
		{"json rate 1e400", orderinjection.TaxLineSchema,
			decodeJSON(`{"amount":0.8,"rate":1e400,"name":"VAT"}`),
			"rate", []string{nsconnector.CodeTooBig}},
		{"yaml rate .nan", orderinjection.TaxLineSchema,
			decodeYAML("amount: 0.8\nrate: .nan\nname: VAT\n"),
			"rate", []string{nsconnector.CodeTooSmall, nsconnector.CodeTooBig}},
		{"go rate NaN", orderinjection.TaxLineSchema,
			map[string]any{"amount": 0.8, "rate": math.NaN(), "name": "VAT"},
			"rate", []string{nsconnector.CodeTooSmall, nsconnector.CodeTooBig}},
		{"json amount -1e400", orderinjection.PaymentSchema,
			decodeJSON(`{"type":"captured","amount":-1e400,"method":"card","processed_at":"2024-01-01T00:00:00Z","processor":"adyen","correlation_ref":"c-1"}`),
			"amount", []string{nsconnector.CodeTooSmall}},
	}
	for _, tc := range cases {
		res, err := tc.schema().Evaluate(tc.doc)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if res.Valid() {
			t.Fatalf("%s: expected invalid", tc.name)
		}
		var codes []string
		for _, it := range res.Issues() {
			if it.Path != tc.path {
				t.Fatalf("%s: unexpected issue %+v", tc.name, it)
			}
			codes = append(codes, it.Code)
		}
		if !reflect.DeepEqual(codes, tc.codes) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.codes, codes)
		}
	}
}
