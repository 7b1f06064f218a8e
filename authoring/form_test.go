// authoring/form_test.go
package authoring_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontendfixll/laundry-abac/authoring"
	"github.com/frontendfixll/laundry-abac/model"
)

type fakeStore struct {
	created []model.Policy
	err     error
}

func (s *fakeStore) CreatePolicy(ctx context.Context, policy model.Policy, userID string) (*model.Policy, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, policy)
	return &policy, nil
}

func filledForm() *authoring.PolicyForm {
	form := authoring.NewPolicyForm()
	form.PolicyID = "block cross tenant"
	form.Name = "Block Cross Tenant"
	form.Description = "Denies access to resources owned by another tenant"
	form.Scope = model.ScopePlatform
	form.Category = model.CategoryTenantIsolation
	form.Effect = model.EffectDeny
	form.Priority = 900
	return form
}

func TestNewPolicyForm_Defaults(t *testing.T) {
	form := authoring.NewPolicyForm()

	assert.Equal(t, model.ScopeTenant, form.Scope)
	assert.Equal(t, model.CategoryCustom, form.Category)
	assert.Equal(t, model.EffectDeny, form.Effect)
	assert.Equal(t, 100, form.Priority)
	for _, axis := range model.Axes {
		assert.Empty(t, form.Conditions[axis])
	}
}

func TestAddUpdateRemoveAttribute(t *testing.T) {
	form := authoring.NewPolicyForm()

	form.AddAttribute(model.AxisSubject)
	require.Len(t, form.Conditions[model.AxisSubject], 1)
	assert.Equal(t, model.OpEquals, form.Conditions[model.AxisSubject][0].Operator)

	form.UpdateAttribute(model.AxisSubject, 0, "name", "role")
	form.UpdateAttribute(model.AxisSubject, 0, "operator", "in")
	form.UpdateAttribute(model.AxisSubject, 0, "value", "ADMIN,SUPPORT")
	row := form.Conditions[model.AxisSubject][0]
	assert.Equal(t, "role", row.Name)
	assert.Equal(t, model.OpIn, row.Operator)
	assert.Equal(t, "ADMIN,SUPPORT", row.RawValue)

	// out-of-range indexes are ignored
	form.UpdateAttribute(model.AxisSubject, 5, "name", "ignored")
	form.RemoveAttribute(model.AxisSubject, 5)
	require.Len(t, form.Conditions[model.AxisSubject], 1)

	form.RemoveAttribute(model.AxisSubject, 0)
	assert.Empty(t, form.Conditions[model.AxisSubject])
}

func TestBuild_CanonicalizesPolicyID(t *testing.T) {
	form := filledForm()
	form.PolicyID = "  block   cross\ttenant "

	policy, warnings, err := form.Build()
	require.NoError(t, err)
	assert.Equal(t, "BLOCK_CROSS_TENANT", policy.ID)
	assert.NotEmpty(t, warnings) // no conditions on any axis
}

func TestBuild_ParsesConditionValuesPerOperator(t *testing.T) {
	form := filledForm()
	form.AddAttribute(model.AxisSubject)
	form.UpdateAttribute(model.AxisSubject, 0, "name", "tenant_id")
	form.UpdateAttribute(model.AxisSubject, 0, "operator", "not_equals")
	form.UpdateAttribute(model.AxisSubject, 0, "value", "{resource.tenant_id}")

	form.AddAttribute(model.AxisAction)
	form.UpdateAttribute(model.AxisAction, 0, "name", "action")
	form.UpdateAttribute(model.AxisAction, 0, "operator", "in")
	form.UpdateAttribute(model.AxisAction, 0, "value", "read, write")

	form.AddAttribute(model.AxisEnvironment)
	form.UpdateAttribute(model.AxisEnvironment, 0, "name", "risk_score")
	form.UpdateAttribute(model.AxisEnvironment, 0, "operator", "greater_than")
	form.UpdateAttribute(model.AxisEnvironment, 0, "value", "75")

	policy, warnings, err := form.Build()
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, policy.SubjectAttributes, 1)
	assert.Equal(t, "{resource.tenant_id}", policy.SubjectAttributes[0].Value)

	require.Len(t, policy.ActionAttributes, 1)
	assert.Equal(t, []string{"read", "write"}, policy.ActionAttributes[0].Value)

	require.Len(t, policy.EnvironmentAttributes, 1)
	assert.Equal(t, float64(75), policy.EnvironmentAttributes[0].Value)
}

func TestBuild_RejectsMissingFields(t *testing.T) {
	form := filledForm()
	form.Name = ""
	_, _, err := form.Build()
	assert.Error(t, err)

	form = filledForm()
	form.Priority = 0
	_, _, err = form.Build()
	assert.Error(t, err)

	form = filledForm()
	form.Priority = 1001
	_, _, err = form.Build()
	assert.Error(t, err)
}

func TestBuild_RejectsNonNumericValueForNumericOperator(t *testing.T) {
	form := filledForm()
	form.AddAttribute(model.AxisEnvironment)
	form.UpdateAttribute(model.AxisEnvironment, 0, "name", "hour")
	form.UpdateAttribute(model.AxisEnvironment, 0, "operator", "less_than")
	form.UpdateAttribute(model.AxisEnvironment, 0, "value", "midnight")

	_, _, err := form.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric")
}

func TestSubmit_ResetsFormOnlyOnSuccess(t *testing.T) {
	store := &fakeStore{}
	form := filledForm()
	form.AddAttribute(model.AxisSubject)
	form.UpdateAttribute(model.AxisSubject, 0, "name", "role")
	form.UpdateAttribute(model.AxisSubject, 0, "operator", "equals")
	form.UpdateAttribute(model.AxisSubject, 0, "value", "TENANT_ADMIN")

	created, _, err := form.Submit(context.Background(), store, "admin-1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "BLOCK_CROSS_TENANT", created.ID)

	// form is back to its initial state
	assert.Empty(t, form.Name)
	assert.Equal(t, 100, form.Priority)
	assert.Empty(t, form.Conditions[model.AxisSubject])
}

func TestSubmit_RetainsFormOnStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("store unavailable")}
	form := filledForm()

	_, _, err := form.Submit(context.Background(), store, "admin-1")
	require.Error(t, err)

	// nothing the author typed is lost
	assert.Equal(t, "Block Cross Tenant", form.Name)
	assert.Equal(t, 900, form.Priority)
}

func TestSubmit_RetainsFormOnBuildFailure(t *testing.T) {
	store := &fakeStore{}
	form := filledForm()
	form.AddAttribute(model.AxisEnvironment)
	form.UpdateAttribute(model.AxisEnvironment, 0, "name", "hour")
	form.UpdateAttribute(model.AxisEnvironment, 0, "operator", "greater_than")
	form.UpdateAttribute(model.AxisEnvironment, 0, "value", "noon")

	_, _, err := form.Submit(context.Background(), store, "admin-1")
	require.Error(t, err)
	assert.Empty(t, store.created)
	assert.Equal(t, "noon", form.Conditions[model.AxisEnvironment][0].RawValue)
}
