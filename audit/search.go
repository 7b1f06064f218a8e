// audit/search.go
package audit

import "strings"

// FilterLogs narrows already-loaded entries by a case-insensitive substring
// match, the way the viewer's search box does. It never re-queries the
// store: results are bounded by the page the caller already holds, which is a
// documented limitation of the search box, not a bug.
func FilterLogs(entries []DecisionLogEntry, term string) []DecisionLogEntry {
	if term == "" {
		return entries
	}

	filtered := make([]DecisionLogEntry, 0, len(entries))
	for _, entry := range entries {
		if MatchesSearch(entry, term) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// MatchesSearch reports whether the term appears in any of the entry's
// identifying fields or in any applied policy's name or ID.
func MatchesSearch(entry DecisionLogEntry, term string) bool {
	term = strings.ToLower(term)

	for _, field := range []string{
		entry.DecisionID,
		entry.UserID,
		entry.UserRole,
		entry.Action,
		entry.ResourceType,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}

	for _, policy := range entry.AppliedPolicies {
		if strings.Contains(strings.ToLower(policy.PolicyName), term) ||
			strings.Contains(strings.ToLower(policy.PolicyID), term) {
			return true
		}
	}

	return false
}
