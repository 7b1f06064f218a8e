// authoring/parse.go
package authoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/frontendfixll/laundry-abac/model"
)

// ParseValue converts a raw text input into the operator-appropriate typed
// value:
//
//   - in/not_in: split on ",", trim each segment, preserving order and
//     duplicates
//   - greater_than/less_than: numeric; a non-numeric input returns NaN and an
//     error so submission is rejected instead of silently coercing to 0
//   - the literal strings "true"/"false": boolean
//   - anything else: the raw string unchanged
func ParseValue(raw string, operator model.Operator) (interface{}, error) {
	switch operator {
	case model.OpIn, model.OpNotIn:
		segments := strings.Split(raw, ",")
		values := make([]string, len(segments))
		for i, s := range segments {
			values[i] = strings.TrimSpace(s)
		}
		return values, nil
	case model.OpGreaterThan, model.OpLessThan:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("operator %s requires a numeric value, got %q", operator, raw)
		}
		return n, nil
	}

	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	return raw, nil
}
