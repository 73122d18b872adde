package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type RiskHandler struct {
	riskService *services.RiskService
}

func NewRiskHandler(db *gorm.DB, cfg *config.Config) *RiskHandler {
	email := services.NewEmailService(db, &cfg.Email)
	approval := services.NewApprovalService(db, email, cfg)
	return &RiskHandler{
		riskService: services.NewRiskService(db, approval),
	}
}

type assessRequest struct {
	TenantID     uint   `json:"tenant_id"`
	FeedbackID   *uint  `json:"feedback_id"`
	FeedbackText string `json:"feedback_text" binding:"required"`
	ResponseText string `json:"response_text"`
}

// Assess scores a feedback/response pair without persisting anything
// POST /api/v1/risk/assess
func (h *RiskHandler) Assess(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result := h.riskService.Assess(req.FeedbackText, req.ResponseText)
	response.Success(c, result)
}

// AssessAndRecord scores the pair and opens an approval when required
// POST /api/v1/risk/assess-and-record
func (h *RiskHandler) AssessAndRecord(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.TenantID == 0 {
		response.BadRequest(c, "tenant_id is required")
		return
	}

	result, approvalID, err := h.riskService.AssessAndRecord(req.TenantID, req.FeedbackID, req.FeedbackText, req.ResponseText)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"assessment":  result,
		"approval_id": approvalID,
	})
}
