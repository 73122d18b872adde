package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type EscalationHandler struct {
	db                *gorm.DB
	escalationService *services.EscalationService
}

func NewEscalationHandler(db *gorm.DB, cfg *config.Config) *EscalationHandler {
	email := services.NewEmailService(db, &cfg.Email)
	return &EscalationHandler{
		db:                db,
		escalationService: services.NewEscalationService(db, email),
	}
}

// RunCheck triggers an SLA check pass
// POST /api/v1/escalations/check
func (h *EscalationHandler) RunCheck(c *gin.Context) {
	actions, err := h.escalationService.RunCheck(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"actions_taken": len(actions),
		"actions":       actions,
	})
}

// Stats lists recent escalation transitions for a tenant
// GET /api/v1/escalations/stats?tenant_id=...&limit=...
func (h *EscalationHandler) Stats(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var stats []models.EscalationStats
	if err := h.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&stats).Error; err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, stats)
}

// ListRules returns the SLA rules visible to a tenant (its own plus defaults)
// GET /api/v1/escalations/rules?tenant_id=...
func (h *EscalationHandler) ListRules(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	var rules []models.EscalationRule
	if err := h.db.Where("tenant_id = ? OR tenant_id IS NULL", uint(tenantID)).
		Order("category ASC").
		Find(&rules).Error; err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, rules)
}

type ruleRequest struct {
	TenantID       *uint   `json:"tenant_id"`
	Category       string  `json:"category" binding:"required"`
	ThresholdHours float64 `json:"threshold_hours" binding:"required,gt=0"`
	IsActive       *bool   `json:"is_active"`
}

// UpsertRule creates or updates an SLA rule
// POST /api/v1/escalations/rules
func (h *EscalationHandler) UpsertRule(c *gin.Context) {
	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	query := h.db.Where("category = ?", req.Category)
	if req.TenantID != nil {
		query = query.Where("tenant_id = ?", *req.TenantID)
	} else {
		query = query.Where("tenant_id IS NULL")
	}

	var rule models.EscalationRule
	err := query.First(&rule).Error
	if err == gorm.ErrRecordNotFound {
		rule = models.EscalationRule{
			TenantID:       req.TenantID,
			Category:       req.Category,
			ThresholdHours: req.ThresholdHours,
			IsActive:       active,
		}
		if err := h.db.Create(&rule).Error; err != nil {
			response.ServerError(c, err.Error())
			return
		}
		response.Created(c, rule)
		return
	}
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	rule.ThresholdHours = req.ThresholdHours
	rule.IsActive = active
	if err := h.db.Save(&rule).Error; err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, rule)
}
