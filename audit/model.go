// audit/model.go
package audit

import (
	"time"

	"github.com/frontendfixll/laundry-abac/model"
)

// AppliedPolicy is one row of a decision trace: a policy the engine examined,
// whether or not it matched, in evaluation order.
type AppliedPolicy struct {
	PolicyID   string       `json:"policyId"`
	PolicyName string       `json:"policyName"`
	Effect     model.Effect `json:"effect"`
	Matched    bool         `json:"matched"`
	Reason     string       `json:"reason,omitempty"`
}

// DecisionLogEntry is the immutable record of one access-control evaluation.
// Entries are write-once: nothing in this service ever edits one after the
// repository accepts it.
type DecisionLogEntry struct {
	DecisionID      string          `json:"decisionId"`
	UserID          string          `json:"userId"`
	UserRole        string          `json:"userRole"`
	Action          string          `json:"action"`
	ResourceType    string          `json:"resourceType"`
	ResourceID      string          `json:"resourceId,omitempty"`
	Decision        model.Effect    `json:"decision"`
	Reason          string          `json:"reason,omitempty"`
	AppliedPolicies []AppliedPolicy `json:"appliedPolicies"`
	EvaluationTime  int64           `json:"evaluationTime"` // milliseconds
	IPAddress       string          `json:"ipAddress,omitempty"`
	Endpoint        string          `json:"endpoint,omitempty"`
	Method          string          `json:"method,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Filter narrows a decision log query. Zero values mean "no constraint".
type Filter struct {
	Decision     model.Effect `json:"decision,omitempty"`
	ResourceType string       `json:"resourceType,omitempty"`
	Action       string       `json:"action,omitempty"`
	UserID       string       `json:"userId,omitempty"`
}

// Pagination describes one page of a query result. Page is 1-indexed.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// DecisionStats are server-computed counts over the full filtered set, not
// the visible page.
type DecisionStats struct {
	Total   int64 `json:"total"`
	Allowed int64 `json:"allowed"`
	Denied  int64 `json:"denied"`
}
