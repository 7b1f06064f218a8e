package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontendfixll/laundry-abac/audit"
	abac_errors "github.com/frontendfixll/laundry-abac/errors"
	logger "github.com/frontendfixll/laundry-abac/logging"
	"github.com/frontendfixll/laundry-abac/model"
	pdp_model "github.com/frontendfixll/laundry-abac/pdp/model"
	"github.com/frontendfixll/laundry-abac/util"
)

// PolicyRetriever loads the candidate policies for one access request.
type PolicyRetriever interface {
	RetrieveCandidatePolicies(ctx context.Context, request *pdp_model.AccessRequest) ([]*model.Policy, error)
}

// Evaluator resolves an access request against a candidate set.
type Evaluator interface {
	Evaluate(ctx context.Context, request *pdp_model.AccessRequest, policies []*model.Policy) *pdp_model.AccessDecision
}

type IDecisionService interface {
	EvaluateAccess(ctx context.Context, request *pdp_model.AccessRequest) (*audit.DecisionLogEntry, error)
}

// DecisionService runs the full decision pipeline: retrieve candidates,
// evaluate, then persist the decision log entry. Audit failures never flip a
// decision; they are logged and the decision stands.
type DecisionService struct {
	retriever      PolicyRetriever
	evaluator      Evaluator
	auditService   audit.Service
	validationUtil *util.ValidationUtil
}

func NewDecisionService(retriever PolicyRetriever, evaluator Evaluator, auditService audit.Service, validationUtil *util.ValidationUtil) *DecisionService {
	return &DecisionService{
		retriever:      retriever,
		evaluator:      evaluator,
		auditService:   auditService,
		validationUtil: validationUtil,
	}
}

func (s *DecisionService) EvaluateAccess(ctx context.Context, request *pdp_model.AccessRequest) (*audit.DecisionLogEntry, error) {
	if err := s.validationUtil.ValidateAccessRequest(request.UserID, request.Action, request.ResourceType); err != nil {
		return nil, err
	}

	if request.Timestamp.IsZero() {
		request.Timestamp = time.Now()
	}

	policies, err := s.retriever.RetrieveCandidatePolicies(ctx, request)
	if err != nil {
		logger.Error("Error retrieving candidate policies", zap.Error(err), zap.String("userID", request.UserID))
		return nil, fmt.Errorf("failed to retrieve policies: %w", abac_errors.ErrDatabaseOperation)
	}

	start := time.Now()
	decision := s.evaluator.Evaluate(ctx, request, policies)
	elapsed := time.Since(start).Milliseconds()

	entry := buildLogEntry(request, decision, elapsed)

	if err := s.auditService.LogDecision(ctx, *entry); err != nil {
		logger.Warn("Failed to persist decision log entry",
			zap.Error(err),
			zap.String("decisionID", entry.DecisionID),
			zap.String("decision", string(entry.Decision)))
	}

	logger.Info("Access request evaluated",
		zap.String("decisionID", entry.DecisionID),
		zap.String("userID", request.UserID),
		zap.String("action", request.Action),
		zap.String("resourceType", request.ResourceType),
		zap.String("decision", string(decision.Decision)),
		zap.Int64("evaluationTimeMs", elapsed))

	return entry, nil
}

func buildLogEntry(request *pdp_model.AccessRequest, decision *pdp_model.AccessDecision, elapsedMs int64) *audit.DecisionLogEntry {
	applied := make([]audit.AppliedPolicy, 0, len(decision.Results))
	for _, result := range decision.Results {
		applied = append(applied, audit.AppliedPolicy{
			PolicyID:   result.PolicyID,
			PolicyName: result.PolicyName,
			Effect:     result.Effect,
			Matched:    result.Matched,
			Reason:     result.Reason,
		})
	}

	return &audit.DecisionLogEntry{
		DecisionID:      uuid.NewString(),
		UserID:          request.UserID,
		UserRole:        request.UserRole,
		Action:          request.Action,
		ResourceType:    request.ResourceType,
		ResourceID:      request.ResourceID,
		Decision:        decision.Decision,
		Reason:          decision.Reason,
		AppliedPolicies: applied,
		EvaluationTime:  elapsedMs,
		IPAddress:       request.IPAddress,
		Endpoint:        request.Endpoint,
		Method:          request.Method,
		CreatedAt:       request.Timestamp,
	}
}
