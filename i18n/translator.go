package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional values substituted into {placeholders} of the
// message (for example, "min", "max", "expected" or "allowed").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"required":       "field is required",
		"invalid_type":   "expected {expected}, got {got}",
		"too_short":      "length must be at least {min}",
		"too_long":       "length must be at most {max}",
		"too_small":      "value must be greater than or equal to {min}",
		"too_big":        "value must be less than or equal to {max}",
		"invalid_enum":   "value must be one of {allowed}",
		"invalid_format": "value is not a valid {format}",
		"too_deep":       "nesting exceeds max depth {max}",
		"duplicate_key":  "duplicate key {key}",
		"parse_error":    "parse error",
	},
	"ja": {
		"required":       "必須項目です",
		"invalid_type":   "型が不正です ({expected} を期待しましたが {got} でした)",
		"too_short":      "長さは {min} 以上である必要があります",
		"too_long":       "長さは {max} 以下である必要があります",
		"too_small":      "値は {min} 以上である必要があります",
		"too_big":        "値は {max} 以下である必要があります",
		"invalid_enum":   "値は {allowed} のいずれかである必要があります",
		"invalid_format": "{format} の形式が不正です",
		"too_deep":       "ネストが最大深さ {max} を超えています",
		"duplicate_key":  "キー {key} が重複しています",
		"parse_error":    "解析エラー",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return fill(tmpl, data)
}

// fill substitutes {key} placeholders. Keys missing from data are left as-is.
func fill(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
