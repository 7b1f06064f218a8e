// model/policy.go
package model

import (
	"strings"
	"time"
)

// Operator is the comparison applied between a condition's value and the
// attribute resolved from an access request.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpContains    Operator = "contains"
	OpRegex       Operator = "regex"
)

func (o Operator) Valid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpIn, OpNotIn, OpGreaterThan, OpLessThan, OpContains, OpRegex:
		return true
	}
	return false
}

// Scope determines whether a policy applies platform-wide or within a
// single tenant's boundary.
type Scope string

const (
	ScopePlatform Scope = "PLATFORM"
	ScopeTenant   Scope = "TENANT"
)

func (s Scope) Valid() bool {
	return s == ScopePlatform || s == ScopeTenant
}

// Category groups policies by the concern they enforce.
type Category string

const (
	CategoryTenantIsolation     Category = "TENANT_ISOLATION"
	CategoryReadOnlyEnforcement Category = "READ_ONLY_ENFORCEMENT"
	CategoryFinancialLimits     Category = "FINANCIAL_LIMITS"
	CategoryTimeBoundActions    Category = "TIME_BOUND_ACTIONS"
	CategoryAutomationScope     Category = "AUTOMATION_SCOPE"
	CategoryNotificationSafety  Category = "NOTIFICATION_SAFETY"
	CategoryCustom              Category = "CUSTOM"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTenantIsolation, CategoryReadOnlyEnforcement, CategoryFinancialLimits,
		CategoryTimeBoundActions, CategoryAutomationScope, CategoryNotificationSafety,
		CategoryCustom:
		return true
	}
	return false
}

type Effect string

const (
	EffectAllow Effect = "ALLOW"
	EffectDeny  Effect = "DENY"
)

func (e Effect) Valid() bool {
	return e == EffectAllow || e == EffectDeny
}

// AttributeCondition is one (name, operator, value) triple. Value is typed
// per operator: []string for in/not_in, float64 for greater_than/less_than,
// bool for the literal strings "true"/"false", string otherwise. The
// authoring layer guarantees the typing; the engine never has to coerce.
type AttributeCondition struct {
	Name     string      `json:"name"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

// Axis names one of the four condition lists on a policy.
type Axis string

const (
	AxisSubject     Axis = "subject"
	AxisAction      Axis = "action"
	AxisResource    Axis = "resource"
	AxisEnvironment Axis = "environment"
)

// Axes lists the four condition axes in evaluation order.
var Axes = []Axis{AxisSubject, AxisAction, AxisResource, AxisEnvironment}

// Policy is a named, scoped, categorized bundle of attribute conditions across
// the four ABAC axes. An empty axis list places no constraint on that axis.
// Updates are whole-policy replacement; the evaluation engine never mutates a
// stored policy.
type Policy struct {
	ID                    string               `json:"policyId"`
	Name                  string               `json:"name"`
	Description           string               `json:"description"`
	Scope                 Scope                `json:"scope"`
	Category              Category             `json:"category"`
	Effect                Effect               `json:"effect"`
	Priority              int                  `json:"priority"`
	SubjectAttributes     []AttributeCondition `json:"subjectAttributes"`
	ActionAttributes      []AttributeCondition `json:"actionAttributes"`
	ResourceAttributes    []AttributeCondition `json:"resourceAttributes"`
	EnvironmentAttributes []AttributeCondition `json:"environmentAttributes"`
	Version               int                  `json:"version"`
	Active                bool                 `json:"active"`
	CreatedAt             time.Time            `json:"createdAt"`
	UpdatedAt             time.Time            `json:"updatedAt"`
}

// CanonicalPolicyID derives the canonical form of a policy ID: uppercased,
// with every run of whitespace collapsed to a single underscore.
func CanonicalPolicyID(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), "_"))
}

// Conditions returns the condition list for the given axis.
func (p *Policy) Conditions(axis Axis) []AttributeCondition {
	switch axis {
	case AxisSubject:
		return p.SubjectAttributes
	case AxisAction:
		return p.ActionAttributes
	case AxisResource:
		return p.ResourceAttributes
	case AxisEnvironment:
		return p.EnvironmentAttributes
	}
	return nil
}

// MatchesEverything reports whether all four axis lists are empty, in which
// case the policy matches every request. Such policies are legal but worth
// flagging at authoring time.
func (p *Policy) MatchesEverything() bool {
	return len(p.SubjectAttributes) == 0 &&
		len(p.ActionAttributes) == 0 &&
		len(p.ResourceAttributes) == 0 &&
		len(p.EnvironmentAttributes) == 0
}

type PolicySearchCriteria struct {
	Name        string   `json:"name"`
	Scope       Scope    `json:"scope"`
	Category    Category `json:"category"`
	Effect      Effect   `json:"effect"`
	MinPriority int      `json:"minPriority"`
	MaxPriority int      `json:"maxPriority"`
	Active      *bool    `json:"active"`
	Limit       int      `json:"limit"`
}
