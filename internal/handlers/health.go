package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/internal/services"
)

// HealthHandler reports subsystem status.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	pendingEscalations := services.NewDashboardService(models.GetDB()).PendingEscalations()

	var pendingApprovals int64
	models.GetDB().Model(&models.ResponseApproval{}).
		Where("status = ?", models.ApprovalPending).
		Count(&pendingApprovals)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "guestglow",
		"components": gin.H{
			"database":            dbStatus,
			"queue_mode":          queueMode,
			"pending_escalations": pendingEscalations,
			"pending_approvals":   pendingApprovals,
		},
	})
}
