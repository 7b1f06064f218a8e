// pdp/engine/values.go
package engine

import (
	"fmt"
	"strconv"
)

// stringify renders an attribute or condition value the way set-membership
// and regex operators compare it. Integers render without a decimal point so
// "42" matches both int and float forms.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(t, 64)
		return n, err == nil
	}
	return 0, false
}

// equalValues does deep value equality with numeric unification, so a stored
// float64(3) still equals a request attribute int(3).
func equalValues(a, b interface{}) bool {
	if af, aok := toFloatStrict(a); aok {
		if bf, bok := toFloatStrict(b); bok {
			return af == bf
		}
		return false
	}
	switch at := a.(type) {
	case string:
		bs, ok := b.(string)
		return ok && at == bs
	case bool:
		bb, ok := b.(bool)
		return ok && at == bb
	}
	return stringify(a) == stringify(b)
}

// toFloatStrict is toFloat without the string fallback: "5" is a string for
// equality purposes, not the number 5.
func toFloatStrict(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// stringSlice normalizes an in/not_in condition value. Authored policies
// carry []string; policies read back through JSON carry []interface{}.
func stringSlice(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []interface{}:
		out := make([]string, len(t))
		for i, item := range t {
			out[i] = stringify(item)
		}
		return out, nil
	}
	return nil, fmt.Errorf("membership operator requires a list value, got %T", v)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
