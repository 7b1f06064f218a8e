// audit/export.go
package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// csvColumns is the fixed export column order. Changing it breaks downstream
// spreadsheets, so treat it as a contract.
var csvColumns = []string{
	"Decision ID",
	"User ID",
	"User Role",
	"Action",
	"Resource Type",
	"Resource ID",
	"Decision",
	"Evaluation Time (ms)",
	"IP Address",
	"Endpoint",
	"Method",
	"Applied Policies",
	"Timestamp",
}

// ConvertToCSV serializes entries with the fixed column order. Every data
// field is double-quote wrapped with internal quotes doubled; applied
// policies flatten to "name(effect); name(effect); ..."; timestamps are
// RFC 3339.
func ConvertToCSV(entries []DecisionLogEntry) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(csvColumns, ","))
	b.WriteByte('\n')

	for _, entry := range entries {
		fields := []string{
			entry.DecisionID,
			entry.UserID,
			entry.UserRole,
			entry.Action,
			entry.ResourceType,
			entry.ResourceID,
			string(entry.Decision),
			strconv.FormatInt(entry.EvaluationTime, 10),
			entry.IPAddress,
			entry.Endpoint,
			entry.Method,
			flattenAppliedPolicies(entry.AppliedPolicies),
			entry.CreatedAt.UTC().Format(time.RFC3339),
		}
		for i, field := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSVField(field))
		}
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

func escapeCSVField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func flattenAppliedPolicies(policies []AppliedPolicy) string {
	parts := make([]string, len(policies))
	for i, p := range policies {
		parts[i] = fmt.Sprintf("%s(%s)", p.PolicyName, p.Effect)
	}
	return strings.Join(parts, "; ")
}

// ExportFileName returns the dated download name, e.g.
// abac-audit-logs-2026-08-31.csv.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("abac-audit-logs-%s.csv", t.UTC().Format("2006-01-02"))
}
