// pdp/dao/policy_retrieval_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	policy_dao "github.com/frontendfixll/laundry-abac/dao"
	abac_errors "github.com/frontendfixll/laundry-abac/errors"
	logger "github.com/frontendfixll/laundry-abac/logging"
	"github.com/frontendfixll/laundry-abac/model"
	abac_neo4j "github.com/frontendfixll/laundry-abac/model/neo4j"
	pdp_model "github.com/frontendfixll/laundry-abac/pdp/model"
)

type PolicyRetrievalDAO struct {
	Driver neo4j.Driver
}

func NewPolicyRetrievalDAO(driver neo4j.Driver) *PolicyRetrievalDAO {
	return &PolicyRetrievalDAO{Driver: driver}
}

// RetrieveCandidatePolicies returns the active policies whose scope covers
// the request, in evaluation order: priority descending, ties broken by ID so
// the trace ordering is deterministic. PLATFORM policies always apply;
// TENANT policies apply only when the request carries a tenant.
func (dao *PolicyRetrievalDAO) RetrieveCandidatePolicies(ctx context.Context, request *pdp_model.AccessRequest) ([]*model.Policy, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (p:%s)
        WHERE p.active = true
          AND (p.scope = $platformScope OR ($tenantID <> '' AND p.scope = $tenantScope))
        RETURN p
        ORDER BY p.priority DESC, p.id ASC
        `, abac_neo4j.LabelPolicy)
		records, err := tx.Run(query, map[string]interface{}{
			"platformScope": string(model.ScopePlatform),
			"tenantScope":   string(model.ScopeTenant),
			"tenantID":      request.TenantID,
		})
		if err != nil {
			return nil, abac_errors.ErrDatabaseOperation
		}

		var policies []*model.Policy
		for records.Next() {
			node := records.Record().Values[0].(neo4j.Node)
			policy, err := parsePolicy(node.Props)
			if err != nil {
				return nil, err
			}
			policies = append(policies, policy)
		}
		return policies, nil
	})
	if err != nil {
		logger.Error("Failed to retrieve candidate policies",
			zap.Error(err),
			zap.String("userID", request.UserID),
			zap.String("action", request.Action))
		return nil, err
	}

	policies := result.([]*model.Policy)
	logger.Debug("Candidate policies retrieved",
		zap.Int("count", len(policies)),
		zap.String("userID", request.UserID),
		zap.Duration("duration", time.Since(start)))
	return policies, nil
}

func parsePolicy(props map[string]interface{}) (*model.Policy, error) {
	return policy_dao.ParsePolicyNode(props)
}
