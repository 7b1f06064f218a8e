// audit/export_test.go
package audit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontendfixll/laundry-abac/model"
)

func sampleEntry() DecisionLogEntry {
	return DecisionLogEntry{
		DecisionID:   "dec-1",
		UserID:       "user-1",
		UserRole:     "TENANT_ADMIN",
		Action:       "read",
		ResourceType: "order",
		ResourceID:   "order-7",
		Decision:     model.EffectAllow,
		AppliedPolicies: []AppliedPolicy{
			{PolicyID: "ALLOW_READS", PolicyName: "Allow Reads", Effect: model.EffectAllow, Matched: true},
			{PolicyID: "BLOCK_CROSS_TENANT", PolicyName: "Block Cross Tenant", Effect: model.EffectDeny},
		},
		EvaluationTime: 12,
		IPAddress:      "10.0.0.1",
		Endpoint:       "/api/v1/orders",
		Method:         "GET",
		CreatedAt:      time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC),
	}
}

func TestConvertToCSV_HeaderAndColumnCount(t *testing.T) {
	out := string(ConvertToCSV([]DecisionLogEntry{sampleEntry()}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		"Decision ID,User ID,User Role,Action,Resource Type,Resource ID,Decision,Evaluation Time (ms),IP Address,Endpoint,Method,Applied Policies,Timestamp",
		lines[0])
	assert.Equal(t, 13, strings.Count(lines[1], `","`)+1)
}

func TestConvertToCSV_EveryFieldQuoted(t *testing.T) {
	out := string(ConvertToCSV([]DecisionLogEntry{sampleEntry()}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	row := lines[1]

	assert.True(t, strings.HasPrefix(row, `"dec-1"`))
	assert.Contains(t, row, `"ALLOW"`)
	assert.Contains(t, row, `"12"`)
	assert.Contains(t, row, `"2026-08-30T15:04:05Z"`)
}

func TestConvertToCSV_DoublesEmbeddedQuotes(t *testing.T) {
	entry := sampleEntry()
	entry.UserID = `user "quoted" name`
	entry.AppliedPolicies = nil

	out := string(ConvertToCSV([]DecisionLogEntry{entry}))
	assert.Contains(t, out, `"user ""quoted"" name"`)
}

func TestConvertToCSV_FlattensAppliedPolicies(t *testing.T) {
	out := string(ConvertToCSV([]DecisionLogEntry{sampleEntry()}))
	assert.Contains(t, out, `"Allow Reads(ALLOW); Block Cross Tenant(DENY)"`)
}

func TestConvertToCSV_EmptyAppliedPolicies(t *testing.T) {
	entry := sampleEntry()
	entry.AppliedPolicies = nil

	out := string(ConvertToCSV([]DecisionLogEntry{entry}))
	assert.Contains(t, out, `"GET",""`)
}

func TestConvertToCSV_NoEntries(t *testing.T) {
	out := string(ConvertToCSV(nil))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "Decision ID,"))
}

func TestExportFileName(t *testing.T) {
	name := ExportFileName(time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "abac-audit-logs-2026-08-31.csv", name)
}
