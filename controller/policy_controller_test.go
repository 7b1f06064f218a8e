// controller/policy_controller_test.go
package controller_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"

	"github.com/frontendfixll/laundry-abac/controller"
	abac_errors "github.com/frontendfixll/laundry-abac/errors"
	"github.com/frontendfixll/laundry-abac/model"
	"github.com/frontendfixll/laundry-abac/test/mock"
)

func setupPolicyRouter(svc *mock.MockPolicyService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "test-admin")
		c.Set("userRole", "PLATFORM_ADMIN")
	})
	api := r.Group("/api/v1")
	controller.NewPolicyController(svc).RegisterRoutes(api)
	return r
}

func TestPolicyController(t *testing.T) {
	validPolicy := `{
		"policyId": "BLOCK_CROSS_TENANT",
		"name": "Block Cross Tenant",
		"description": "Denies cross-tenant access",
		"scope": "PLATFORM",
		"category": "TENANT_ISOLATION",
		"effect": "DENY",
		"priority": 900
	}`

	t.Run("CreatePolicy_Success", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("CreatePolicy", tmock.Anything, tmock.Anything, "test-admin").
			Return(&model.Policy{ID: "BLOCK_CROSS_TENANT", Name: "Block Cross Tenant"}, nil)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/abac/policies", strings.NewReader(validPolicy))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "BLOCK_CROSS_TENANT")
		svc.AssertExpectations(t)
	})

	t.Run("CreatePolicy_Conflict", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("CreatePolicy", tmock.Anything, tmock.Anything, "test-admin").
			Return(nil, abac_errors.ErrPolicyConflict)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/abac/policies", strings.NewReader(validPolicy))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("CreatePolicy_ValidationError", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("CreatePolicy", tmock.Anything, tmock.Anything, "test-admin").
			Return(nil, fmt.Errorf("%w: policy name cannot be empty", abac_errors.ErrInvalidPolicyData))
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/abac/policies", strings.NewReader(`{"policyId":"NO_NAME","scope":"PLATFORM"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreatePolicy_InvalidJSON", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/abac/policies", strings.NewReader("{not json"))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SubmitDraft_Success", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("CreatePolicy", tmock.Anything, tmock.MatchedBy(func(p model.Policy) bool {
			return p.ID == "BLOCK_CROSS_TENANT"
		}), "test-admin").Return(&model.Policy{ID: "BLOCK_CROSS_TENANT"}, nil)
		router := setupPolicyRouter(svc)

		draft := `{
			"policyId": "block cross tenant",
			"name": "Block Cross Tenant",
			"description": "Denies cross-tenant access",
			"scope": "PLATFORM",
			"category": "TENANT_ISOLATION",
			"effect": "DENY",
			"priority": 900,
			"conditions": {
				"resource": [{"name": "tenant_id", "operator": "not_equals", "value": "{subject.tenant_id}"}]
			}
		}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/abac/policies/draft", strings.NewReader(draft))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("SubmitDraft_NonNumericValueRejected", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		router := setupPolicyRouter(svc)

		draft := `{
			"policyId": "late night",
			"name": "Late Night",
			"description": "Blocks late-night automation",
			"scope": "TENANT",
			"category": "TIME_BOUND_ACTIONS",
			"effect": "DENY",
			"priority": 500,
			"conditions": {
				"environment": [{"name": "hour", "operator": "greater_than", "value": "midnight"}]
			}
		}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/abac/policies/draft", strings.NewReader(draft))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreatePolicy")
	})

	t.Run("UpdatePolicy_NotFound", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("UpdatePolicy", tmock.Anything, tmock.Anything, "test-admin").
			Return(nil, abac_errors.ErrPolicyNotFound)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/abac/policies/MISSING", strings.NewReader(validPolicy))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UpdatePolicy_ValidationError", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("UpdatePolicy", tmock.Anything, tmock.Anything, "test-admin").
			Return(nil, fmt.Errorf("%w: policy priority must be between 1 and 1000", abac_errors.ErrInvalidPolicyData))
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/abac/policies/BLOCK_CROSS_TENANT", strings.NewReader(validPolicy))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DeletePolicy_Success", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("DeletePolicy", tmock.Anything, "BLOCK_CROSS_TENANT", "test-admin").Return(nil)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/abac/policies/BLOCK_CROSS_TENANT", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("GetPolicy_NotFound", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("GetPolicy", tmock.Anything, "MISSING").
			Return(nil, abac_errors.ErrPolicyNotFound)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/abac/policies/MISSING", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ListPolicies_Success", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("ListPolicies", tmock.Anything, 10, 0).
			Return([]*model.Policy{{ID: "A"}, {ID: "B"}}, nil)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/abac/policies", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("BulkCreatePolicies_Success", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("BulkCreatePolicies", tmock.Anything, tmock.Anything, "test-admin").
			Return([]string{"A", "B"}, nil)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/abac/policies/bulk", strings.NewReader(`[`+validPolicy+`]`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "policyIds")
	})

	t.Run("SearchPolicies_Success", func(t *testing.T) {
		svc := new(mock.MockPolicyService)
		svc.On("SearchPolicies", tmock.Anything, tmock.Anything).
			Return([]*model.Policy{{ID: "BLOCK_CROSS_TENANT"}}, nil)
		router := setupPolicyRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/abac/policies/search", strings.NewReader(`{"category":"TENANT_ISOLATION"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPolicyController_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(mock.MockPolicyService)
	r := gin.New()
	api := r.Group("/api/v1")
	controller.NewPolicyController(svc).RegisterRoutes(api)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/abac/policies", strings.NewReader(`{"name":"x"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "CreatePolicy")
}
