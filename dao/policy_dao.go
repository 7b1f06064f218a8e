// dao/policy_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	abac_errors "github.com/frontendfixll/laundry-abac/errors"
	logger "github.com/frontendfixll/laundry-abac/logging"
	"github.com/frontendfixll/laundry-abac/model"
	abac_neo4j "github.com/frontendfixll/laundry-abac/model/neo4j"
)

type PolicyDAO struct {
	Driver neo4j.Driver
}

func NewPolicyDAO(driver neo4j.Driver) *PolicyDAO {
	dao := &PolicyDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

// EnsureUniqueConstraint ensures the unique constraint on the Policy ID
func (dao *PolicyDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("Failed to close Neo4j session", zap.Error(err))
		}
	}()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        CREATE CONSTRAINT %s IF NOT EXISTS
        FOR (p:%s) REQUIRE p.id IS UNIQUE
        `, abac_neo4j.ConstraintUniquePolicyID, abac_neo4j.LabelPolicy)
		if _, err := transaction.Run(query, nil); err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on Policy ID", zap.Error(err))
		return err
	}

	return nil
}

// CreatePolicy creates a new policy node in Neo4j. The canonical ID must
// already be derived; a duplicate is a conflict, not an upsert.
func (dao *PolicyDAO) CreatePolicy(ctx context.Context, policy model.Policy, userID string) (string, error) {
	start := time.Now()
	logger.Info("Creating new policy", zap.String("policyID", policy.ID), zap.String("userID", userID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		checkQuery := fmt.Sprintf(`
        MATCH (p:%s {id: $id})
        RETURN p.id
        `, abac_neo4j.LabelPolicy)
		checkResult, err := transaction.Run(checkQuery, map[string]interface{}{"id": policy.ID})
		if err != nil {
			return nil, abac_errors.ErrDatabaseOperation
		}
		if checkResult.Next() {
			return nil, abac_errors.ErrPolicyConflict
		}

		createQuery := fmt.Sprintf(`
        CREATE (p:%s {id: $id})
        SET p += $props
        RETURN p.id as id
        `, abac_neo4j.LabelPolicy)
		records, err := transaction.Run(createQuery, map[string]interface{}{
			"id":    policy.ID,
			"props": policyProps(&policy),
		})
		if err != nil {
			return nil, abac_errors.ErrDatabaseOperation
		}
		if records.Next() {
			return records.Record().Values[0], nil
		}
		return nil, abac_errors.ErrDatabaseOperation
	})
	if err != nil {
		return "", err
	}

	logger.Info("Policy created",
		zap.String("policyID", policy.ID),
		zap.Duration("duration", time.Since(start)))
	return result.(string), nil
}

// UpdatePolicy replaces the stored policy wholesale. There are no
// partial-patch semantics; callers send the complete replacement.
func (dao *PolicyDAO) UpdatePolicy(ctx context.Context, policy model.Policy, userID string) (*model.Policy, error) {
	logger.Info("Updating policy", zap.String("policyID", policy.ID), zap.String("userID", userID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (p:%s {id: $id})
        SET p += $props
        RETURN p.id
        `, abac_neo4j.LabelPolicy)
		records, err := transaction.Run(query, map[string]interface{}{
			"id":    policy.ID,
			"props": policyProps(&policy),
		})
		if err != nil {
			return nil, abac_errors.ErrDatabaseOperation
		}
		if !records.Next() {
			return nil, abac_errors.ErrPolicyNotFound
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return &policy, nil
}

// DeletePolicy removes the policy node
func (dao *PolicyDAO) DeletePolicy(ctx context.Context, policyID string, userID string) error {
	logger.Info("Deleting policy", zap.String("policyID", policyID), zap.String("userID", userID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (p:%s {id: $id})
        WITH p, p.id AS id
        DETACH DELETE p
        RETURN id
        `, abac_neo4j.LabelPolicy)
		records, err := transaction.Run(query, map[string]interface{}{"id": policyID})
		if err != nil {
			return nil, abac_errors.ErrDatabaseOperation
		}
		if !records.Next() {
			return nil, abac_errors.ErrPolicyNotFound
		}
		return nil, nil
	})
	return err
}

// GetPolicy retrieves a policy by its canonical ID
func (dao *PolicyDAO) GetPolicy(ctx context.Context, policyID string) (*model.Policy, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (p:%s {id: $id})
        RETURN p
        `, abac_neo4j.LabelPolicy)
		records, err := transaction.Run(query, map[string]interface{}{"id": policyID})
		if err != nil {
			return nil, abac_errors.ErrDatabaseOperation
		}
		if !records.Next() {
			return nil, abac_errors.ErrPolicyNotFound
		}
		node := records.Record().Values[0].(neo4j.Node)
		return ParsePolicyNode(node.Props)
	})
	if err != nil {
		return nil, err
	}

	return result.(*model.Policy), nil
}

// ListPolicies returns policies ordered by priority, highest first
func (dao *PolicyDAO) ListPolicies(ctx context.Context, limit int, offset int) ([]*model.Policy, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (p:%s)
        RETURN p
        ORDER BY p.priority DESC, p.id ASC
        SKIP $offset LIMIT $limit
        `, abac_neo4j.LabelPolicy)
		records, err := transaction.Run(query, map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return nil, abac_errors.ErrDatabaseOperation
		}
		return collectPolicies(records)
	})
	if err != nil {
		return nil, err
	}

	return result.([]*model.Policy), nil
}

// SearchPolicies filters policies by the given criteria
func (dao *PolicyDAO) SearchPolicies(ctx context.Context, criteria model.PolicySearchCriteria) ([]*model.Policy, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (p:%s)
    WHERE ($name = '' OR toLower(p.name) CONTAINS toLower($name))
      AND ($scope = '' OR p.scope = $scope)
      AND ($category = '' OR p.category = $category)
      AND ($effect = '' OR p.effect = $effect)
      AND ($minPriority = 0 OR p.priority >= $minPriority)
      AND ($maxPriority = 0 OR p.priority <= $maxPriority)
    `, abac_neo4j.LabelPolicy)
	params := map[string]interface{}{
		"name":        criteria.Name,
		"scope":       string(criteria.Scope),
		"category":    string(criteria.Category),
		"effect":      string(criteria.Effect),
		"minPriority": criteria.MinPriority,
		"maxPriority": criteria.MaxPriority,
	}
	if criteria.Active != nil {
		query += " AND p.active = $active"
		params["active"] = *criteria.Active
	}
	query += `
    RETURN p
    ORDER BY p.priority DESC, p.id ASC
    `
	limit := criteria.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT $limit"
	params["limit"] = limit

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		records, err := transaction.Run(query, params)
		if err != nil {
			return nil, abac_errors.ErrDatabaseOperation
		}
		return collectPolicies(records)
	})
	if err != nil {
		return nil, err
	}

	return result.([]*model.Policy), nil
}

// policyProps flattens a policy into node properties. The four condition
// lists are stored as JSON strings; Neo4j property types cannot hold them
// natively.
func policyProps(policy *model.Policy) map[string]interface{} {
	subjectJSON, _ := json.Marshal(policy.SubjectAttributes)
	actionJSON, _ := json.Marshal(policy.ActionAttributes)
	resourceJSON, _ := json.Marshal(policy.ResourceAttributes)
	environmentJSON, _ := json.Marshal(policy.EnvironmentAttributes)

	return map[string]interface{}{
		"name":                  policy.Name,
		"description":           policy.Description,
		"scope":                 string(policy.Scope),
		"category":              string(policy.Category),
		"effect":                string(policy.Effect),
		"priority":              policy.Priority,
		"version":               policy.Version,
		"active":                policy.Active,
		"createdAt":             policy.CreatedAt.Format(time.RFC3339),
		"updatedAt":             policy.UpdatedAt.Format(time.RFC3339),
		"subjectAttributes":     string(subjectJSON),
		"actionAttributes":      string(actionJSON),
		"resourceAttributes":    string(resourceJSON),
		"environmentAttributes": string(environmentJSON),
	}
}

// ParsePolicyNode rebuilds a policy from node properties.
func ParsePolicyNode(props map[string]interface{}) (*model.Policy, error) {
	policy := &model.Policy{
		ID:          stringProp(props, "id"),
		Name:        stringProp(props, "name"),
		Description: stringProp(props, "description"),
		Scope:       model.Scope(stringProp(props, "scope")),
		Category:    model.Category(stringProp(props, "category")),
		Effect:      model.Effect(stringProp(props, "effect")),
		Priority:    intProp(props, "priority"),
		Version:     intProp(props, "version"),
	}
	if active, ok := props["active"].(bool); ok {
		policy.Active = active
	}
	if createdAt, err := time.Parse(time.RFC3339, stringProp(props, "createdAt")); err == nil {
		policy.CreatedAt = createdAt
	}
	if updatedAt, err := time.Parse(time.RFC3339, stringProp(props, "updatedAt")); err == nil {
		policy.UpdatedAt = updatedAt
	}

	axes := map[string]*[]model.AttributeCondition{
		"subjectAttributes":     &policy.SubjectAttributes,
		"actionAttributes":      &policy.ActionAttributes,
		"resourceAttributes":    &policy.ResourceAttributes,
		"environmentAttributes": &policy.EnvironmentAttributes,
	}
	for prop, target := range axes {
		raw := stringProp(props, prop)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), target); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", prop, err)
		}
	}

	return policy, nil
}

func collectPolicies(records neo4j.Result) ([]*model.Policy, error) {
	var policies []*model.Policy
	for records.Next() {
		node := records.Record().Values[0].(neo4j.Node)
		policy, err := ParsePolicyNode(node.Props)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func intProp(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
