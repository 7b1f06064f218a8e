// audit/search_test.go
package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frontendfixll/laundry-abac/model"
)

func searchEntries() []DecisionLogEntry {
	return []DecisionLogEntry{
		{DecisionID: "dec-100", UserID: "alice", UserRole: "TENANT_ADMIN", Action: "read", ResourceType: "order"},
		{DecisionID: "dec-101", UserID: "bob", UserRole: "SUPPORT", Action: "write", ResourceType: "invoice"},
		{DecisionID: "dec-102", UserID: "carol", UserRole: "VIEWER", Action: "read", ResourceType: "customer",
			AppliedPolicies: []AppliedPolicy{
				{PolicyID: "BLOCK_CROSS_TENANT", PolicyName: "Block Cross Tenant", Effect: model.EffectDeny, Matched: true},
			}},
	}
}

func TestFilterLogs_EmptyTermReturnsAll(t *testing.T) {
	entries := searchEntries()
	assert.Equal(t, entries, FilterLogs(entries, ""))
}

func TestFilterLogs_MatchesIdentityFields(t *testing.T) {
	entries := searchEntries()

	assert.Len(t, FilterLogs(entries, "alice"), 1)
	assert.Len(t, FilterLogs(entries, "dec-101"), 1)
	assert.Len(t, FilterLogs(entries, "read"), 2)
	assert.Len(t, FilterLogs(entries, "invoice"), 1)
}

func TestFilterLogs_CaseInsensitive(t *testing.T) {
	entries := searchEntries()

	assert.Len(t, FilterLogs(entries, "ALICE"), 1)
	assert.Len(t, FilterLogs(entries, "tenant_admin"), 1)
}

func TestFilterLogs_MatchesAppliedPolicyNameAndID(t *testing.T) {
	entries := searchEntries()

	byName := FilterLogs(entries, "block cross")
	assert.Len(t, byName, 1)
	assert.Equal(t, "dec-102", byName[0].DecisionID)

	byID := FilterLogs(entries, "BLOCK_CROSS_TENANT")
	assert.Len(t, byID, 1)
}

func TestFilterLogs_NoMatches(t *testing.T) {
	assert.Empty(t, FilterLogs(searchEntries(), "nonexistent"))
}
