package source_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/rules"
	"github.com/reoring/nsconnector/source"
)

const payloadJSON = `{
  "external_id": "ord-1",
  "shipments": [
    {"items": [{"price": {"item_price": 10, "rate": 0.08, "gift": true, "note": null}}]}
  ]
}`

const payloadYAML = `
external_id: ord-1
shipments:
  - items:
      - price:
          item_price: 10
          rate: 0.08
          gift: true
          note: null
`

func TestJSON_DecodesWithNumbers(t *testing.T) {
	doc, err := source.JSONBytes([]byte(payloadJSON), source.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", doc.Issues)
	}
	m, ok := doc.Object()
	if !ok {
		t.Fatalf("expected object, got %T", doc.Value)
	}
	price := m["shipments"].([]any)[0].(map[string]any)["items"].([]any)[0].(map[string]any)["price"].(map[string]any)
	if price["item_price"] != json.Number("10") || rules.TypeOf(price["item_price"]) != rules.Int {
		t.Fatalf("unexpected item_price %#v", price["item_price"])
	}
	if rules.TypeOf(price["rate"]) != rules.Float {
		t.Fatalf("unexpected rate %#v", price["rate"])
	}
	if price["gift"] != true {
		t.Fatalf("unexpected gift %#v", price["gift"])
	}
	if v, ok := price["note"]; !ok || v != nil {
		t.Fatalf("explicit null must be kept as a present nil")
	}
}

func TestJSON_DuplicateKeys(t *testing.T) {
	in := `{"a": 1, "b": {"c": 1, "c": 2}, "l": [{"x": 1, "x": 3}], "a": 2}`
	doc, err := source.JSONBytes([]byte(in), source.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var paths []string
	for _, it := range doc.Issues {
		if it.Code != nsconnector.CodeDuplicateKey {
			t.Fatalf("unexpected issue %+v", it)
		}
		paths = append(paths, it.Path)
	}
	want := []string{"b.c", "l[0].x", "a"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("duplicate paths mismatch (-want +got):\n%s", diff)
	}
	m, _ := doc.Object()
	if m["a"] != json.Number("2") {
		t.Fatalf("last value must win, got %#v", m["a"])
	}

	doc, _ = source.JSONBytes([]byte(in), source.Options{MaxIssues: 1})
	if len(doc.Issues) != 1 {
		t.Fatalf("expected issues to be capped, got %v", doc.Issues)
	}
}

func TestJSON_MaxDepth(t *testing.T) {
	in := `{"a": {"b": [1]}}`
	if _, err := source.JSONBytes([]byte(in), source.Options{MaxDepth: 3}); err != nil {
		t.Fatalf("unexpected error at the limit: %v", err)
	}
	_, err := source.JSONBytes([]byte(in), source.Options{MaxDepth: 2})
	iss, ok := nsconnector.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != nsconnector.CodeTooDeep || iss[0].Path != "a.b" {
		t.Fatalf("expected too_deep at a.b, got %v", err)
	}
	deep := strings.Repeat("[", 100) + strings.Repeat("]", 100)
	if _, err := source.JSONBytes([]byte(deep), source.Options{MaxDepth: -1}); err != nil {
		t.Fatalf("negative depth disables the guard: %v", err)
	}
}

func TestJSON_Malformed(t *testing.T) {
	for _, in := range []string{
		``,
		`{"a": 1`,
		`{"a": 1]`,
		`{"a": 1} {"b": 2}`,
		`{"a": tru}`,
		`[1, 2`,
	} {
		_, err := source.JSONBytes([]byte(in), source.Options{})
		iss, ok := nsconnector.AsIssues(err)
		if !ok || len(iss) == 0 || iss[0].Code != nsconnector.CodeParseError {
			t.Fatalf("%q: expected parse_error, got %v", in, err)
		}
	}
}

func TestYAML_AgreesWithJSON(t *testing.T) {
	fromJSON, err := source.JSONBytes([]byte(payloadJSON), source.Options{})
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	fromYAML, err := source.YAMLBytes([]byte(payloadYAML), source.Options{})
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if diff := cmp.Diff(fromJSON.Value, fromYAML.Value); diff != "" {
		t.Fatalf("sources disagree (-json +yaml):\n%s", diff)
	}
}

func TestYAML_WholeFloatStaysFloat(t *testing.T) {
	doc, err := source.YAMLBytes([]byte("rate: 1.0\ncount: 3\n"), source.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, _ := doc.Object()
	if rules.TypeOf(m["rate"]) != rules.Float || rules.TypeOf(m["count"]) != rules.Int {
		t.Fatalf("unexpected numbers %#v %#v", m["rate"], m["count"])
	}
}

func TestYAML_Errors(t *testing.T) {
	if _, err := source.YAMLBytes(nil, source.Options{}); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := source.YAMLBytes([]byte("a: [1, 2"), source.Options{}); err == nil {
		t.Fatalf("expected error for malformed document")
	}
	_, err := source.YAMLBytes([]byte("a:\n  b:\n    c: 1\n"), source.Options{MaxDepth: 2})
	iss, ok := nsconnector.AsIssues(err)
	if !ok || iss[0].Code != nsconnector.CodeTooDeep || iss[0].Path != "a.b" {
		t.Fatalf("expected too_deep at a.b, got %v", err)
	}
}

func TestFile_PicksDecoderByExtension(t *testing.T) {
	dir := t.TempDir()
	jp := filepath.Join(dir, "order.json")
	yp := filepath.Join(dir, "order.yml")
	if err := os.WriteFile(jp, []byte(payloadJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yp, []byte(payloadYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := source.File(jp, source.Options{})
	if err != nil {
		t.Fatalf("json file: %v", err)
	}
	b, err := source.File(yp, source.Options{})
	if err != nil {
		t.Fatalf("yaml file: %v", err)
	}
	if diff := cmp.Diff(a.Value, b.Value); diff != "" {
		t.Fatalf("file sources disagree (-json +yaml):\n%s", diff)
	}
	if _, err := source.File(filepath.Join(dir, "missing.json"), source.Options{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
