// util/validation_util.go

package util

import (
	"fmt"
	"math"

	"github.com/frontendfixll/laundry-abac/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

// ValidatePolicy checks a fully-typed policy before it reaches the store.
// A value whose runtime type does not match its operator is rejected here,
// at authoring time, so the evaluation engine never has to crash on it.
func (v *ValidationUtil) ValidatePolicy(policy model.Policy) error {
	if policy.ID == "" {
		return fmt.Errorf("policy ID cannot be empty")
	}
	if policy.ID != model.CanonicalPolicyID(policy.ID) {
		return fmt.Errorf("policy ID %q is not in canonical form", policy.ID)
	}
	if policy.Name == "" {
		return fmt.Errorf("policy name cannot be empty")
	}
	if policy.Description == "" {
		return fmt.Errorf("policy description cannot be empty")
	}
	if !policy.Scope.Valid() {
		return fmt.Errorf("policy scope must be PLATFORM or TENANT")
	}
	if !policy.Category.Valid() {
		return fmt.Errorf("unknown policy category %q", policy.Category)
	}
	if !policy.Effect.Valid() {
		return fmt.Errorf("policy effect must be ALLOW or DENY")
	}
	if policy.Priority < 1 || policy.Priority > 1000 {
		return fmt.Errorf("policy priority must be between 1 and 1000")
	}

	for _, axis := range model.Axes {
		for i, condition := range policy.Conditions(axis) {
			if err := validateCondition(condition); err != nil {
				return fmt.Errorf("%s condition %d: %w", axis, i+1, err)
			}
		}
	}

	return nil
}

func validateCondition(condition model.AttributeCondition) error {
	if condition.Name == "" {
		return fmt.Errorf("attribute name cannot be empty")
	}
	if !condition.Operator.Valid() {
		return fmt.Errorf("unknown operator %q", condition.Operator)
	}

	switch condition.Operator {
	case model.OpIn, model.OpNotIn:
		switch condition.Value.(type) {
		case []string, []interface{}:
		default:
			return fmt.Errorf("operator %s requires a list value, got %T", condition.Operator, condition.Value)
		}
	case model.OpGreaterThan, model.OpLessThan:
		n, ok := numericValue(condition.Value)
		if !ok {
			return fmt.Errorf("operator %s requires a numeric value, got %T", condition.Operator, condition.Value)
		}
		if math.IsNaN(n) {
			return fmt.Errorf("operator %s requires a numeric value, got NaN", condition.Operator)
		}
	case model.OpRegex:
		if _, ok := condition.Value.(string); !ok {
			return fmt.Errorf("operator %s requires a string pattern, got %T", condition.Operator, condition.Value)
		}
	}

	return nil
}

func numericValue(v interface{}) (float64, bool) {
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

// ValidateAccessRequest checks the minimum an evaluation needs.
func (v *ValidationUtil) ValidateAccessRequest(userID, action, resourceType string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if action == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if resourceType == "" {
		return fmt.Errorf("resource type cannot be empty")
	}
	return nil
}
