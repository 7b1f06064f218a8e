// controller/controllers.go
package controller

import (
	"github.com/frontendfixll/laundry-abac/service"
)

type Controllers struct {
	Policy   *PolicyController
	Decision *DecisionController
	Audit    *AuditController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Policy:   NewPolicyController(services.Policy),
		Decision: NewDecisionController(services.Decision),
		Audit:    NewAuditController(services.Audit),
	}
}
