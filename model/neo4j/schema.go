// model/neo4j/schema.go
package abac_neo4j

// Node Labels
const (
	// LabelPolicy represents an access control policy
	LabelPolicy = "POLICY"
)

// Constraints
const (
	// ConstraintUniquePolicyID guarantees one node per canonical policy ID
	ConstraintUniquePolicyID = "unique_policy_id"
)
