// authoring/form.go
package authoring

import (
	"context"
	"fmt"

	"github.com/frontendfixll/laundry-abac/model"
)

// DraftCondition is one attribute row as the authoring form holds it: the
// value is still the raw text the user typed, parsed only on submit.
type DraftCondition struct {
	Name     string         `json:"name"`
	Operator model.Operator `json:"operator"`
	RawValue string         `json:"value"`
}

// PolicyStore is the submission target for a completed form.
type PolicyStore interface {
	CreatePolicy(ctx context.Context, policy model.Policy, userID string) (*model.Policy, error)
}

// PolicyForm accumulates a policy draft the way the admin authoring screen
// does: free-text identity fields plus one raw condition list per axis. The
// form survives a failed submission untouched, and resets only after the
// store accepts the policy.
type PolicyForm struct {
	PolicyID    string         `json:"policyId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Scope       model.Scope    `json:"scope"`
	Category    model.Category `json:"category"`
	Effect      model.Effect   `json:"effect"`
	Priority    int            `json:"priority"`

	Conditions map[model.Axis][]DraftCondition `json:"conditions"`
}

// NewPolicyForm returns an empty form with the defaults the authoring screen
// starts from.
func NewPolicyForm() *PolicyForm {
	return &PolicyForm{
		Scope:    model.ScopeTenant,
		Category: model.CategoryCustom,
		Effect:   model.EffectDeny,
		Priority: 100,
		Conditions: map[model.Axis][]DraftCondition{
			model.AxisSubject:     {},
			model.AxisAction:      {},
			model.AxisResource:    {},
			model.AxisEnvironment: {},
		},
	}
}

// AddAttribute appends a blank condition to the chosen axis. Always succeeds.
func (f *PolicyForm) AddAttribute(axis model.Axis) {
	f.Conditions[axis] = append(f.Conditions[axis], DraftCondition{Operator: model.OpEquals})
}

// RemoveAttribute removes the condition at index from the axis. Out-of-range
// indexes are ignored: the form can only reference rows it rendered.
func (f *PolicyForm) RemoveAttribute(axis model.Axis, index int) {
	list := f.Conditions[axis]
	if index < 0 || index >= len(list) {
		return
	}
	f.Conditions[axis] = append(list[:index], list[index+1:]...)
}

// UpdateAttribute replaces one field of one condition. Other fields of the
// row are left as they are, unvalidated until submit.
func (f *PolicyForm) UpdateAttribute(axis model.Axis, index int, field, value string) {
	list := f.Conditions[axis]
	if index < 0 || index >= len(list) {
		return
	}
	switch field {
	case "name":
		list[index].Name = value
	case "operator":
		list[index].Operator = model.Operator(value)
	case "value":
		list[index].RawValue = value
	}
}

// Build validates the form, canonicalizes the policy ID, and parses every
// condition value across all four axes. A policy that matches every request
// is accepted but reported as a warning.
func (f *PolicyForm) Build() (*model.Policy, []string, error) {
	if f.Name == "" {
		return nil, nil, fmt.Errorf("policy name is required")
	}
	if f.Description == "" {
		return nil, nil, fmt.Errorf("policy description is required")
	}
	if f.PolicyID == "" {
		return nil, nil, fmt.Errorf("policy ID is required")
	}
	if !f.Scope.Valid() {
		return nil, nil, fmt.Errorf("invalid scope %q", f.Scope)
	}
	if !f.Category.Valid() {
		return nil, nil, fmt.Errorf("invalid category %q", f.Category)
	}
	if !f.Effect.Valid() {
		return nil, nil, fmt.Errorf("invalid effect %q", f.Effect)
	}
	if f.Priority < 1 || f.Priority > 1000 {
		return nil, nil, fmt.Errorf("priority must be between 1 and 1000, got %d", f.Priority)
	}

	policy := &model.Policy{
		ID:          model.CanonicalPolicyID(f.PolicyID),
		Name:        f.Name,
		Description: f.Description,
		Scope:       f.Scope,
		Category:    f.Category,
		Effect:      f.Effect,
		Priority:    f.Priority,
		Active:      true,
	}

	for _, axis := range model.Axes {
		conditions, err := f.buildAxis(axis)
		if err != nil {
			return nil, nil, err
		}
		switch axis {
		case model.AxisSubject:
			policy.SubjectAttributes = conditions
		case model.AxisAction:
			policy.ActionAttributes = conditions
		case model.AxisResource:
			policy.ResourceAttributes = conditions
		case model.AxisEnvironment:
			policy.EnvironmentAttributes = conditions
		}
	}

	var warnings []string
	if policy.MatchesEverything() {
		warnings = append(warnings, "policy has no conditions on any axis and will match every request")
	}

	return policy, warnings, nil
}

func (f *PolicyForm) buildAxis(axis model.Axis) ([]model.AttributeCondition, error) {
	drafts := f.Conditions[axis]
	conditions := make([]model.AttributeCondition, 0, len(drafts))
	for i, draft := range drafts {
		if draft.Name == "" {
			return nil, fmt.Errorf("%s condition %d: attribute name is required", axis, i+1)
		}
		if !draft.Operator.Valid() {
			return nil, fmt.Errorf("%s condition %d: unknown operator %q", axis, i+1, draft.Operator)
		}
		value, err := ParseValue(draft.RawValue, draft.Operator)
		if err != nil {
			return nil, fmt.Errorf("%s condition %d: %w", axis, i+1, err)
		}
		conditions = append(conditions, model.AttributeCondition{
			Name:     draft.Name,
			Operator: draft.Operator,
			Value:    value,
		})
	}
	return conditions, nil
}

// Submit builds the policy and sends it to the store. On success the form
// resets to its initial state; on any failure the entered data is retained so
// nothing the author typed is lost.
func (f *PolicyForm) Submit(ctx context.Context, store PolicyStore, userID string) (*model.Policy, []string, error) {
	policy, warnings, err := f.Build()
	if err != nil {
		return nil, nil, err
	}

	created, err := store.CreatePolicy(ctx, *policy, userID)
	if err != nil {
		return nil, warnings, err
	}

	*f = *NewPolicyForm()
	return created, warnings, nil
}
