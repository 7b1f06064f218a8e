// pdp/model/request.go
package model

import (
	"time"

	"github.com/frontendfixll/laundry-abac/model"
)

// AccessRequest is one access-control question: who is attempting what, on
// which resource, under which environment. Attribute maps are the raw
// material conditions resolve against.
type AccessRequest struct {
	UserID   string `json:"userId"`
	UserRole string `json:"userRole"`
	TenantID string `json:"tenantId,omitempty"`

	Action       string `json:"action"`
	ResourceType string `json:"resourceType"`
	ResourceID   string `json:"resourceId,omitempty"`

	SubjectAttributes     map[string]interface{} `json:"subjectAttributes,omitempty"`
	ActionAttributes      map[string]interface{} `json:"actionAttributes,omitempty"`
	ResourceAttributes    map[string]interface{} `json:"resourceAttributes,omitempty"`
	EnvironmentAttributes map[string]interface{} `json:"environmentAttributes,omitempty"`

	IPAddress string    `json:"ipAddress,omitempty"`
	Endpoint  string    `json:"endpoint,omitempty"`
	Method    string    `json:"method,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Attributes returns the attribute map a given axis's conditions resolve
// against. The request's identity fields are folded in under their
// conventional names so policies can reference role, tenant_id, action and
// resource_type without the caller repeating them in the maps.
func (r *AccessRequest) Attributes(axis model.Axis) map[string]interface{} {
	merged := map[string]interface{}{}

	var explicit map[string]interface{}
	switch axis {
	case model.AxisSubject:
		merged["user_id"] = r.UserID
		merged["role"] = r.UserRole
		if r.TenantID != "" {
			merged["tenant_id"] = r.TenantID
		}
		explicit = r.SubjectAttributes
	case model.AxisAction:
		merged["action"] = r.Action
		explicit = r.ActionAttributes
	case model.AxisResource:
		merged["resource_type"] = r.ResourceType
		if r.ResourceID != "" {
			merged["resource_id"] = r.ResourceID
		}
		if r.TenantID != "" {
			merged["tenant_id"] = r.TenantID
		}
		explicit = r.ResourceAttributes
	case model.AxisEnvironment:
		explicit = r.EnvironmentAttributes
	}

	for k, v := range explicit {
		merged[k] = v
	}
	return merged
}
