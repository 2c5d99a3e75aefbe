package liquid

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// toBool implements the truthiness rule used throughout evaluation: every
// value is truthy except nil and the boolean false.
func toBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		return true
	}
}

// toNumber coerces a value to float64, reporting whether the coercion
// makes numeric sense. Used by comparisons and arithmetic filters.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// isFloat reports whether value already carries a floating-point
// representation, so arithmetic can preserve the integer/float distinction
// the spec requires (§3.1).
func isFloat(value any) bool {
	switch value.(type) {
	case float64, float32:
		return true
	default:
		return false
	}
}

// toString implements the coercion table from §4.6: nil -> "", bool ->
// "true"/"false", numbers in canonical decimal form, sequences concatenate
// element string-forms, maps get a domain-reasonable repr.
func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = toString(item)
		}
		return strings.Join(parts, "")
	case map[string]any:
		parts := make([]string, 0, len(v))
		for k, item := range v {
			parts = append(parts, k+": "+toString(item))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return toStringReflect(value)
	}
}

// toStringReflect handles slice/map kinds that aren't the canonical
// []any/map[string]any (e.g. []string returned by a custom filter).
func toStringReflect(value any) string {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts[i] = toString(v.Index(i).Interface())
		}
		return strings.Join(parts, "")
	default:
		return fmt.Sprintf("%v", value)
	}
}

// toInt coerces a value to int, truncating floats, for use by range
// endpoints, loop offsets/limits, and integer-only filters.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// equalValues implements structural equality over the dynamic value model,
// used by Assertion's ==/!= and Case's when-matching (§4.7, §4.6).
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr || bStr {
		return aStr && bStr && as == bs
	}
	ab, aBool := a.(bool)
	bb, bBool := b.(bool)
	if aBool || bBool {
		return aBool && bBool && ab == bb
	}
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		return an == bn
	}
	return reflect.DeepEqual(a, b)
}

// compareValues implements the ordering used by <, <=, >, >=: numeric when
// both operands coerce to numbers, otherwise the comparison is defined to
// be false by the caller (§4.7), never by returning a bogus ordering here.
func compareValues(a, b any) (int, bool) {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case an < bn:
		return -1, true
	case an > bn:
		return 1, true
	default:
		return 0, true
	}
}

// toSlice normalizes a value into []any, covering the canonical sequence
// representation plus any concrete slice/array a custom filter might hand
// back.
func toSlice(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if s, ok := value.([]any); ok {
		return s, true
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = v.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// toStringMap normalizes a value into map[string]any, covering the
// canonical mapping representation (§3.1).
func toStringMap(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	return nil, false
}
