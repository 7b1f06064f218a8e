// pdp/engine/evaluator.go
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	logger "github.com/frontendfixll/laundry-abac/logging"
	"github.com/frontendfixll/laundry-abac/model"
	pdp_model "github.com/frontendfixll/laundry-abac/pdp/model"
)

// PolicyEvaluator implements the decision contract: a policy matches iff
// every condition in every non-empty axis list evaluates true (AND across
// conditions, AND across axes). Among matching policies the higher priority
// number wins; DENY overrides ALLOW at equal priority; no match means DENY.
type PolicyEvaluator struct{}

func NewPolicyEvaluator() *PolicyEvaluator {
	return &PolicyEvaluator{}
}

// Evaluate runs the request against the candidate policies, which must
// already be in evaluation order (priority descending). Every policy is
// examined and recorded in the trace, matched or not.
func (pe *PolicyEvaluator) Evaluate(ctx context.Context, request *pdp_model.AccessRequest, policies []*model.Policy) *pdp_model.AccessDecision {
	results := make([]pdp_model.PolicyEvaluationResult, 0, len(policies))
	for _, policy := range policies {
		results = append(results, pe.evaluatePolicy(request, policy))
	}

	decision := pe.combineResults(results)
	logger.Debug("Access request evaluated",
		zap.String("userID", request.UserID),
		zap.String("action", request.Action),
		zap.String("resourceType", request.ResourceType),
		zap.String("decision", string(decision.Decision)),
		zap.Int("policiesExamined", len(results)))
	return decision
}

func (pe *PolicyEvaluator) evaluatePolicy(request *pdp_model.AccessRequest, policy *model.Policy) pdp_model.PolicyEvaluationResult {
	result := pdp_model.PolicyEvaluationResult{
		PolicyID:   policy.ID,
		PolicyName: policy.Name,
		Effect:     policy.Effect,
		Matched:    true,
		Priority:   policy.Priority,
	}

	for _, axis := range model.Axes {
		conditions := policy.Conditions(axis)
		if len(conditions) == 0 {
			// An empty axis list places no constraint on that axis.
			continue
		}
		attrs := request.Attributes(axis)
		for _, condition := range conditions {
			matched, reason := evaluateCondition(condition, attrs)
			if !matched {
				result.Matched = false
				result.Reason = fmt.Sprintf("%s: %s", axis, reason)
				return result
			}
		}
	}

	return result
}

// evaluateCondition resolves the named attribute and applies the operator.
// Malformed stored data never panics: it evaluates to not-matched with a
// reason the audit trail preserves.
func evaluateCondition(condition model.AttributeCondition, attrs map[string]interface{}) (bool, string) {
	attr, ok := attrs[condition.Name]
	if !ok {
		return false, fmt.Sprintf("attribute %q not present on request", condition.Name)
	}

	switch condition.Operator {
	case model.OpEquals:
		if !equalValues(attr, condition.Value) {
			return false, fmt.Sprintf("%q (%v) does not equal %v", condition.Name, attr, condition.Value)
		}
	case model.OpNotEquals:
		if equalValues(attr, condition.Value) {
			return false, fmt.Sprintf("%q equals excluded value %v", condition.Name, condition.Value)
		}
	case model.OpIn:
		members, err := stringSlice(condition.Value)
		if err != nil {
			return false, fmt.Sprintf("%q: %v", condition.Name, err)
		}
		if !containsString(members, stringify(attr)) {
			return false, fmt.Sprintf("%q (%v) is not in %v", condition.Name, attr, members)
		}
	case model.OpNotIn:
		members, err := stringSlice(condition.Value)
		if err != nil {
			return false, fmt.Sprintf("%q: %v", condition.Name, err)
		}
		if containsString(members, stringify(attr)) {
			return false, fmt.Sprintf("%q (%v) is in excluded set %v", condition.Name, attr, members)
		}
	case model.OpGreaterThan:
		return compareNumeric(condition, attr, func(a, b float64) bool { return a > b })
	case model.OpLessThan:
		return compareNumeric(condition, attr, func(a, b float64) bool { return a < b })
	case model.OpContains:
		matched, reason := evaluateContains(condition, attr)
		if !matched {
			return false, reason
		}
	case model.OpRegex:
		pattern, ok := condition.Value.(string)
		if !ok {
			return false, fmt.Sprintf("%q: regex pattern is not a string", condition.Name)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Sprintf("%q: invalid regex %q", condition.Name, pattern)
		}
		if !re.MatchString(stringify(attr)) {
			return false, fmt.Sprintf("%q (%v) does not match pattern %q", condition.Name, attr, pattern)
		}
	default:
		return false, fmt.Sprintf("%q: unknown operator %q", condition.Name, condition.Operator)
	}

	return true, ""
}

func compareNumeric(condition model.AttributeCondition, attr interface{}, cmp func(a, b float64) bool) (bool, string) {
	threshold, ok := toFloat(condition.Value)
	if !ok {
		return false, fmt.Sprintf("%q: condition value %v is not numeric", condition.Name, condition.Value)
	}
	value, ok := toFloat(attr)
	if !ok {
		return false, fmt.Sprintf("%q: attribute value %v is not numeric", condition.Name, attr)
	}
	if !cmp(value, threshold) {
		return false, fmt.Sprintf("%q (%v) fails %s %v", condition.Name, value, condition.Operator, threshold)
	}
	return true, ""
}

// evaluateContains tests substring containment for string attributes and
// membership for slice attributes.
func evaluateContains(condition model.AttributeCondition, attr interface{}) (bool, string) {
	needle := stringify(condition.Value)
	switch v := attr.(type) {
	case []string:
		if containsString(v, needle) {
			return true, ""
		}
	case []interface{}:
		for _, item := range v {
			if stringify(item) == needle {
				return true, ""
			}
		}
	default:
		if strings.Contains(stringify(attr), needle) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("%q (%v) does not contain %q", condition.Name, attr, needle)
}

// combineResults resolves the matching policies to a single decision. Higher
// priority number wins; a matching DENY beats a matching ALLOW at the same
// priority; no matching policy at all defaults to DENY.
func (pe *PolicyEvaluator) combineResults(results []pdp_model.PolicyEvaluationResult) *pdp_model.AccessDecision {
	var winner *pdp_model.PolicyEvaluationResult

	for i := range results {
		result := &results[i]
		if !result.Matched {
			continue
		}
		if winner == nil ||
			result.Priority > winner.Priority ||
			(result.Priority == winner.Priority && result.Effect == model.EffectDeny && winner.Effect == model.EffectAllow) {
			winner = result
		}
	}

	if winner == nil {
		return &pdp_model.AccessDecision{
			Decision: model.EffectDeny,
			Reason:   "no matching policies",
			Results:  results,
		}
	}

	return &pdp_model.AccessDecision{
		Decision: winner.Effect,
		Reason:   fmt.Sprintf("%s by policy %s (priority %d)", strings.ToLower(string(winner.Effect)), winner.PolicyID, winner.Priority),
		Results:  results,
	}
}
