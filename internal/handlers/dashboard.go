package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db),
	}
}

// GetStats returns aggregate feedback statistics for a tenant
// GET /api/v1/dashboard/stats?tenant_id=...&start_date=...&end_date=...
func (h *DashboardHandler) GetStats(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	var req services.DashboardStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	stats, err := h.dashboardService.GetStats(uint(tenantID), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, stats)
}
