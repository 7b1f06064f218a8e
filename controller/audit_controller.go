// controller/audit_controller.go
package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frontendfixll/laundry-abac/audit"
	abac_errors "github.com/frontendfixll/laundry-abac/errors"
	"github.com/frontendfixll/laundry-abac/model"
	"github.com/frontendfixll/laundry-abac/util"
	helper_util "github.com/frontendfixll/laundry-abac/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/abac/audit-logs")
	{
		logs.GET("", ac.QueryLogs)
		logs.GET("/stats", ac.Stats)
		logs.GET("/export", ac.ExportLogs)
		logs.GET("/:id", ac.GetDecision)
	}
}

func filterFromQuery(c *gin.Context) audit.Filter {
	return audit.Filter{
		Decision:     model.Effect(c.Query("decision")),
		ResourceType: c.Query("resourceType"),
		Action:       c.Query("action"),
		UserID:       c.Query("userId"),
	}
}

// QueryLogs returns one page of decision log entries, newest first. The
// optional search term narrows the returned page client-style: it filters the
// fetched entries without touching the stored query or the pagination totals.
func (ac *AuditController) QueryLogs(c *gin.Context) {
	page, limit, err := helper_util.GetPageParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", abac_errors.ErrInvalidPagination)
		return
	}

	logs, pagination, err := ac.auditService.QueryLogs(c, filterFromQuery(c), page, limit)
	if err != nil {
		if errors.Is(err, abac_errors.ErrInvalidPagination) {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit logs", err)
		}
		return
	}

	if term := c.Query("search"); term != "" {
		logs = audit.FilterLogs(logs, term)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"logs":       logs,
			"pagination": pagination,
		},
	})
}

// GetDecision returns a single decision log entry by decision ID.
func (ac *AuditController) GetDecision(c *gin.Context) {
	decisionID := c.Param("id")

	entry, err := ac.auditService.GetDecision(c, decisionID)
	if err != nil {
		if errors.Is(err, abac_errors.ErrDecisionLogNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Decision log entry not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve decision log entry", err)
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ExportLogs streams the current filtered set as a CSV attachment.
func (ac *AuditController) ExportLogs(c *gin.Context) {
	data, filename, err := ac.auditService.ExportLogs(c, filterFromQuery(c))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to export audit logs", abac_errors.ErrExportFailed)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// Stats returns decision counts over the full filtered set.
func (ac *AuditController) Stats(c *gin.Context) {
	stats, err := ac.auditService.Stats(c, filterFromQuery(c))
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to compute audit statistics", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
