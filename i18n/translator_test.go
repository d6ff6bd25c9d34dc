package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", nil); msg == "field is required" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_FillsPlaceholders(t *testing.T) {
	got := T("too_long", map[string]string{"max": "64"})
	if got != "length must be at most 64" {
		t.Fatalf("unexpected message: %q", got)
	}
	// unknown codes fall back to the code itself
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if got := T("required", nil); got != "X:required" {
		t.Fatalf("custom translator not used: %q", got)
	}
	SetTranslator(nil)
	if got := T("required", nil); got != "field is required" {
		t.Fatalf("expected reset to en, got %q", got)
	}
}
