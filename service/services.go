package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/frontendfixll/laundry-abac/audit"
	"github.com/frontendfixll/laundry-abac/dao"
	pdp_dao "github.com/frontendfixll/laundry-abac/pdp/dao"
	"github.com/frontendfixll/laundry-abac/pdp/engine"
	"github.com/frontendfixll/laundry-abac/util"
)

// Services holds all the service layer components
type Services struct {
	Policy   IPolicyService
	Decision IDecisionService
	Audit    audit.Service
}

// InitializeServices wires DAOs, the evaluation engine and the audit layer
// into the service structs the controllers depend on.
func InitializeServices(
	driver neo4j.Driver,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *Services {
	policyDAO := dao.NewPolicyDAO(driver)
	retrievalDAO := pdp_dao.NewPolicyRetrievalDAO(driver)
	evaluator := engine.NewPolicyEvaluator()

	return &Services{
		Policy:   NewPolicyService(policyDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Decision: NewDecisionService(retrievalDAO, evaluator, auditService, validationUtil),
		Audit:    auditService,
	}
}
