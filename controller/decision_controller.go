// controller/decision_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	abac_errors "github.com/frontendfixll/laundry-abac/errors"
	pdp_model "github.com/frontendfixll/laundry-abac/pdp/model"
	"github.com/frontendfixll/laundry-abac/service"
	"github.com/frontendfixll/laundry-abac/util"
)

type DecisionController struct {
	decisionService service.IDecisionService
}

func NewDecisionController(decisionService service.IDecisionService) *DecisionController {
	return &DecisionController{
		decisionService: decisionService,
	}
}

// RegisterRoutes registers the API routes
func (dc *DecisionController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/abac/evaluate", dc.EvaluateAccess)
}

// EvaluateAccess runs one access request through the decision pipeline and
// returns the logged decision, trace included. Request metadata the caller
// leaves blank is filled from the HTTP request itself.
func (dc *DecisionController) EvaluateAccess(c *gin.Context) {
	var request pdp_model.AccessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
		return
	}

	if request.IPAddress == "" {
		request.IPAddress = c.ClientIP()
	}
	if request.Endpoint == "" {
		request.Endpoint = c.Request.URL.Path
	}
	if request.Method == "" {
		request.Method = c.Request.Method
	}

	entry, err := dc.decisionService.EvaluateAccess(c, &request)
	if err != nil {
		if errors.Is(err, abac_errors.ErrDatabaseOperation) {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate access request", err)
		} else {
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}
