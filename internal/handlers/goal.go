package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(db *gorm.DB) *GoalHandler {
	return &GoalHandler{
		goalService: services.NewGoalService(db),
	}
}

// SetGoal creates or updates a rating goal for a platform
// POST /api/v1/goals?tenant_id=...
func (h *GoalHandler) SetGoal(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	var req services.SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	goal, err := h.goalService.SetGoal(uint(tenantID), &req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, goal)
}

// ListGoals lists active rating goals for a tenant
// GET /api/v1/goals?tenant_id=...
func (h *GoalHandler) ListGoals(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	goals, err := h.goalService.ListGoals(uint(tenantID))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, goals)
}

// ProgressHistory returns recent daily rating snapshots
// GET /api/v1/goals/progress?tenant_id=...&days=30
func (h *GoalHandler) ProgressHistory(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	history, err := h.goalService.ProgressHistory(uint(tenantID), days)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, history)
}
