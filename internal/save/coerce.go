package save

import (
	"strconv"
	"strings"
)

// Total coerce-or-default helpers for untrusted AI payload fields. Each
// helper accepts any decoded JSON value and never fails: a value that cannot
// be coerced yields the zero result and ok=false.

// AsString coerces a value to a trimmed string.
func AsString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

// StringOr coerces v to a string, falling back to def.
func StringOr(v any, def string) string {
	if s, ok := AsString(v); ok && s != "" {
		return s
	}
	return def
}

// AsNumber coerces a value to a float64. Numeric-looking strings are
// accepted to tolerate AI formatting drift.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// NumberOr coerces v to a float64, falling back to def.
func NumberOr(v any, def float64) float64 {
	if f, ok := AsNumber(v); ok {
		return f
	}
	return def
}

// AsInt coerces a value to an int, truncating fractions.
func AsInt(v any) (int, bool) {
	f, ok := AsNumber(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// IntOr coerces v to an int, falling back to def.
func IntOr(v any, def int) int {
	if n, ok := AsInt(v); ok {
		return n
	}
	return def
}

// AsBool coerces a value to a bool. Accepts the usual string spellings.
func AsBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	case float64:
		return b != 0, true
	}
	return false, false
}

// BoolOr coerces v to a bool, falling back to def.
func BoolOr(v any, def bool) bool {
	if b, ok := AsBool(v); ok {
		return b
	}
	return def
}

// AsStringList coerces a value to a list of non-empty strings. A single
// string is split on ASCII and fullwidth commas, another drift the AI layer
// produces routinely.
func AsStringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case nil:
		return nil, false
	case []string:
		return trimList(list), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := AsString(item); ok && s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		split := strings.FieldsFunc(list, func(r rune) bool {
			return r == ',' || r == '，' || r == '、'
		})
		return trimList(split), true
	}
	return nil, false
}

func trimList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AsObject coerces a value to a JSON object map.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Field returns obj[key], preferring the canonical key and falling back
// through the given aliases. Wire payloads mix English and Chinese keys.
func Field(obj map[string]any, key string, aliases ...string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for _, alias := range aliases {
		if v, ok := obj[alias]; ok {
			return v, true
		}
	}
	return nil, false
}
