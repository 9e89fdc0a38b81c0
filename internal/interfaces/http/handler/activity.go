package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	activityapp "github.com/hrms/backend/internal/application/activity"
	dashboardapp "github.com/hrms/backend/internal/application/dashboard"
)

// ActivityService reads the activity log
type ActivityService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]activityapp.LogResponse, error)
}

// DashboardService reads dashboard versions
type DashboardService interface {
	Version(ctx context.Context, userID uuid.UUID) (*dashboardapp.VersionResponse, error)
}

// ActivityHandler serves the caller's activity feed and dashboard version
type ActivityHandler struct {
	BaseHandler
	activity  ActivityService
	dashboard DashboardService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activity ActivityService, dashboard DashboardService) *ActivityHandler {
	return &ActivityHandler{activity: activity, dashboard: dashboard}
}

type activityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// List returns the caller's latest activity, newest first
// GET /api/v1/activity?limit=50
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var query activityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	logs, err := h.activity.List(c.Request.Context(), userID, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if logs == nil {
		logs = []activityapp.LogResponse{}
	}
	h.Success(c, logs)
}

// DashboardVersion returns a counter that changes whenever the caller's
// dashboard data does
// GET /api/v1/dashboard/version
func (h *ActivityHandler) DashboardVersion(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	version, err := h.dashboard.Version(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, version)
}
