// authoring/parse_test.go
package authoring_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontendfixll/laundry-abac/authoring"
	"github.com/frontendfixll/laundry-abac/model"
)

func TestParseValue_IdentityForPlainStrings(t *testing.T) {
	value, err := authoring.ParseValue("premium", model.OpEquals)
	require.NoError(t, err)
	assert.Equal(t, "premium", value)

	value, err = authoring.ParseValue("TENANT_ADMIN", model.OpNotEquals)
	require.NoError(t, err)
	assert.Equal(t, "TENANT_ADMIN", value)
}

func TestParseValue_ListOperatorsSplitOnComma(t *testing.T) {
	value, err := authoring.ParseValue("a, b ,c", model.OpIn)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, value)
}

func TestParseValue_ListPreservesOrderAndDuplicates(t *testing.T) {
	value, err := authoring.ParseValue("b,a,b", model.OpNotIn)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "b"}, value)
}

func TestParseValue_ListOfOneSegment(t *testing.T) {
	value, err := authoring.ParseValue("solo", model.OpIn)
	require.NoError(t, err)
	assert.Equal(t, []string{"solo"}, value)
}

func TestParseValue_NumericOperators(t *testing.T) {
	value, err := authoring.ParseValue("42", model.OpGreaterThan)
	require.NoError(t, err)
	assert.Equal(t, float64(42), value)

	value, err = authoring.ParseValue("3.5", model.OpLessThan)
	require.NoError(t, err)
	assert.Equal(t, 3.5, value)
}

func TestParseValue_NonNumericInputReturnsNaNAndError(t *testing.T) {
	value, err := authoring.ParseValue("abc", model.OpGreaterThan)
	require.Error(t, err)

	n, ok := value.(float64)
	require.True(t, ok)
	assert.True(t, math.IsNaN(n))
}

func TestParseValue_BooleanLiterals(t *testing.T) {
	value, err := authoring.ParseValue("true", model.OpEquals)
	require.NoError(t, err)
	assert.Equal(t, true, value)

	value, err = authoring.ParseValue("false", model.OpEquals)
	require.NoError(t, err)
	assert.Equal(t, false, value)

	// anything other than the exact lowercase literals stays a string
	value, err = authoring.ParseValue("True", model.OpEquals)
	require.NoError(t, err)
	assert.Equal(t, "True", value)
}

func TestParseValue_ListOperatorDoesNotCoerceBooleans(t *testing.T) {
	value, err := authoring.ParseValue("true,false", model.OpIn)
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false"}, value)
}
