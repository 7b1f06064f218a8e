// model/policy_test.go
package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frontendfixll/laundry-abac/model"
)

func TestCanonicalPolicyID(t *testing.T) {
	cases := map[string]string{
		"block cross tenant":       "BLOCK_CROSS_TENANT",
		"  block   cross tenant  ": "BLOCK_CROSS_TENANT",
		"Block\tCross\nTenant":     "BLOCK_CROSS_TENANT",
		"ALREADY_CANONICAL":        "ALREADY_CANONICAL",
		"":                         "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, model.CanonicalPolicyID(raw), "raw=%q", raw)
	}
}

func TestCanonicalPolicyID_Idempotent(t *testing.T) {
	once := model.CanonicalPolicyID("mixed Case  id")
	assert.Equal(t, once, model.CanonicalPolicyID(once))
}

func TestOperatorValid(t *testing.T) {
	for _, op := range []model.Operator{
		model.OpEquals, model.OpNotEquals, model.OpIn, model.OpNotIn,
		model.OpGreaterThan, model.OpLessThan, model.OpContains, model.OpRegex,
	} {
		assert.True(t, op.Valid(), string(op))
	}
	assert.False(t, model.Operator("matches").Valid())
	assert.False(t, model.Operator("").Valid())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, model.ScopePlatform.Valid())
	assert.True(t, model.ScopeTenant.Valid())
	assert.False(t, model.Scope("GLOBAL").Valid())

	assert.True(t, model.CategoryTenantIsolation.Valid())
	assert.True(t, model.CategoryCustom.Valid())
	assert.False(t, model.Category("SECURITY").Valid())

	assert.True(t, model.EffectAllow.Valid())
	assert.True(t, model.EffectDeny.Valid())
	assert.False(t, model.Effect("AUDIT").Valid())
}

func TestConditionsByAxis(t *testing.T) {
	policy := model.Policy{
		SubjectAttributes:  []model.AttributeCondition{{Name: "role", Operator: model.OpEquals, Value: "ADMIN"}},
		ResourceAttributes: []model.AttributeCondition{{Name: "tenant_id", Operator: model.OpEquals, Value: "t-1"}},
	}

	assert.Len(t, policy.Conditions(model.AxisSubject), 1)
	assert.Empty(t, policy.Conditions(model.AxisAction))
	assert.Len(t, policy.Conditions(model.AxisResource), 1)
	assert.Empty(t, policy.Conditions(model.AxisEnvironment))
	assert.Nil(t, policy.Conditions(model.Axis("bogus")))
}

func TestMatchesEverything(t *testing.T) {
	empty := model.Policy{}
	assert.True(t, empty.MatchesEverything())

	constrained := model.Policy{
		EnvironmentAttributes: []model.AttributeCondition{{Name: "hour", Operator: model.OpLessThan, Value: float64(18)}},
	}
	assert.False(t, constrained.MatchesEverything())
}
