package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/services"
	"github.com/onebase1/guestglow-backend/pkg/response"
	"gorm.io/gorm"
)

type EmailHandler struct {
	emailService *services.EmailService
}

func NewEmailHandler(db *gorm.DB, cfg *config.Config) *EmailHandler {
	return &EmailHandler{
		emailService: services.NewEmailService(db, &cfg.Email),
	}
}

type sendEmailRequest struct {
	TenantID   uint   `json:"tenant_id" binding:"required"`
	FeedbackID *uint  `json:"feedback_id"`
	EmailType  string `json:"email_type" binding:"required"`
	Recipient  string `json:"recipient" binding:"required,email"`
	Subject    string `json:"subject" binding:"required"`
	HTML       string `json:"html" binding:"required"`
}

// Send dispatches one email
// POST /api/v1/emails/send
func (h *EmailHandler) Send(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.emailService.Send(&services.SendRequest{
		TenantID:   req.TenantID,
		FeedbackID: req.FeedbackID,
		EmailType:  req.EmailType,
		Recipient:  req.Recipient,
		Subject:    req.Subject,
		HTML:       req.HTML,
	})
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"success":   true,
		"email_id":  result.EmailID,
		"sender":    result.Sender,
		"recipient": result.Recipient,
		"transport": result.Transport,
	})
}

// History lists recent outbound email for a tenant
// GET /api/v1/emails/history?tenant_id=...&limit=...
func (h *EmailHandler) History(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid tenant_id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.emailService.History(uint(tenantID), limit)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, logs)
}

// Senders returns the email type to sender mapping
// GET /api/v1/emails/senders
func (h *EmailHandler) Senders(c *gin.Context) {
	types := []string{"guest_followup", "escalation_alert", "manager_alert", "approval_request", "daily_digest"}
	out := make(map[string]services.Sender, len(types))
	for _, t := range types {
		out[t] = services.SenderFor(t)
	}
	response.Success(c, out)
}
