package descriptor

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/mj1618/layout-inspector/internal/model"
)

// Check validates value against the declared type of attr and returns it
// in canonical form: numbers as float64, colors as lower-case hex and
// composites as a private copy. Values that do not fit fail with
// model.ErrTypeMismatch.
func Check(attr model.Attribute, value any) (any, error) {
	mismatch := func(detail string) error {
		return fmt.Errorf("%s: %s value %s: %w", attr.Name, attr.Type, detail, model.ErrTypeMismatch)
	}

	switch attr.Type {
	case model.AttrString:
		s, ok := value.(string)
		if !ok {
			return nil, mismatch(describe(value))
		}
		return s, nil

	case model.AttrBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, mismatch(describe(value))
		}
		return b, nil

	case model.AttrNumber:
		f, ok := toFloat(value)
		if !ok {
			return nil, mismatch(describe(value))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, mismatch("not finite")
		}
		return f, nil

	case model.AttrEnum:
		s, ok := value.(string)
		if !ok {
			return nil, mismatch(describe(value))
		}
		for _, opt := range attr.Options {
			if opt == s {
				return s, nil
			}
		}
		return nil, mismatch(fmt.Sprintf("%q not one of %s", s, strings.Join(attr.Options, ", ")))

	case model.AttrColor:
		s, ok := value.(string)
		if !ok {
			return nil, mismatch(describe(value))
		}
		c, ok := normalizeColor(s)
		if !ok {
			return nil, mismatch(fmt.Sprintf("%q is not #RGB, #RRGGBB or #RRGGBBAA", s))
		}
		return c, nil

	case model.AttrComposite:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, mismatch(describe(value))
		}
		return plain(m), nil
	}
	return nil, mismatch(fmt.Sprintf("unknown attribute type %q", attr.Type))
}

// plain deep-copies a decoded composite, turning json.Number leaves into
// float64.
func plain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = plain(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = plain(val)
		}
		return s
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("of type %T", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case nil, bool:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func normalizeColor(s string) (string, bool) {
	if !strings.HasPrefix(s, "#") {
		return "", false
	}
	hex := s[1:]
	switch len(hex) {
	case 3, 6, 8:
	default:
		return "", false
	}
	for _, c := range hex {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return "", false
		}
	}
	return "#" + strings.ToLower(hex), true
}
