// pdp/model/evaluation.go
package model

import "github.com/frontendfixll/laundry-abac/model"

// PolicyEvaluationResult records the outcome of evaluating one policy against
// one request. Every policy the engine examines produces a result, matched or
// not, so the decision trace is complete.
type PolicyEvaluationResult struct {
	PolicyID   string       `json:"policyId"`
	PolicyName string       `json:"policyName"`
	Effect     model.Effect `json:"effect"`
	Matched    bool         `json:"matched"`
	Reason     string       `json:"reason,omitempty"`
	Priority   int          `json:"-"`
}

// AccessDecision is the final outcome of one evaluation: the resolved effect,
// a human-readable reason, and the full per-policy trace in evaluation order.
type AccessDecision struct {
	Decision model.Effect             `json:"decision"`
	Reason   string                   `json:"reason"`
	Results  []PolicyEvaluationResult `json:"appliedPolicies"`
}
