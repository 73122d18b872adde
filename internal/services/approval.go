package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
	"gorm.io/gorm"
)

// Redemption errors surfaced to the HTML confirmation page.
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenConsumed = errors.New("token already used or expired")
	ErrNotPending    = errors.New("approval is no longer pending")
)

// ApprovalService manages the human sign-off workflow for risky responses:
// pending -> approved | rejected, driven by single-use token redemption.
type ApprovalService struct {
	db    *gorm.DB
	email *EmailService
	cfg   *config.Config
}

func NewApprovalService(db *gorm.DB, email *EmailService, cfg *config.Config) *ApprovalService {
	return &ApprovalService{db: db, email: email, cfg: cfg}
}

// Open persists a pending approval and issues its approve/reject token pair.
// If an unredeemed, unexpired pair is already outstanding for the same
// feedback/response, the existing approval is reused instead of creating a
// duplicate.
func (s *ApprovalService) Open(approval *models.ResponseApproval) error {
	if approval.FeedbackID != nil {
		var existing models.ResponseApproval
		err := s.db.
			Joins("JOIN approval_tokens ON approval_tokens.approval_id = response_approvals.id").
			Where("response_approvals.feedback_id = ? AND response_approvals.status = ?", *approval.FeedbackID, models.ApprovalPending).
			Where("approval_tokens.used_at IS NULL AND approval_tokens.expires_at > ?", time.Now()).
			First(&existing).Error
		if err == nil {
			*approval = existing
			logger.Infof("[Approval] Reusing outstanding approval %d for feedback %d", existing.ID, *approval.FeedbackID)
			return nil
		}
	}

	if err := s.db.Create(approval).Error; err != nil {
		return err
	}

	tokens, err := s.issueTokenPair(approval.ID)
	if err != nil {
		return err
	}

	// Notification is best-effort; the approval row is the source of truth.
	s.notifyApprover(approval, tokens)
	return nil
}

// issueTokenPair creates one approve and one reject token for the approval.
func (s *ApprovalService) issueTokenPair(approvalID uint) ([]models.ApprovalToken, error) {
	expiry := time.Now().Add(time.Duration(s.cfg.Escalation.TokenExpiryHours) * time.Hour)

	pair := []models.ApprovalToken{
		{ApprovalID: approvalID, Token: uuid.NewString(), Action: models.TokenActionApprove, ExpiresAt: expiry},
		{ApprovalID: approvalID, Token: uuid.NewString(), Action: models.TokenActionReject, ExpiresAt: expiry},
	}

	if err := s.db.Create(&pair).Error; err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

// Redeem consumes a token and applies its action to the approval.
//
// Ordering matters: the token is marked used by a single conditional UPDATE
// before any side effect, so a concurrent second redemption loses the
// RowsAffected race and the approval keeps the state set by the winner.
// Consumption is durable even if the follow-up notification fails.
func (s *ApprovalService) Redeem(tokenValue, action string) (*models.ResponseApproval, error) {
	if action != models.TokenActionApprove && action != models.TokenActionReject {
		return nil, fmt.Errorf("invalid action %q", action)
	}

	var token models.ApprovalToken
	if err := s.db.Where("token = ? AND action = ?", tokenValue, action).First(&token).Error; err != nil {
		return nil, ErrTokenNotFound
	}

	now := time.Now()
	res := s.db.Model(&models.ApprovalToken{}).
		Where("id = ? AND used_at IS NULL AND expires_at > ?", token.ID, now).
		Update("used_at", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTokenConsumed
	}

	newStatus := models.ApprovalApproved
	if action == models.TokenActionReject {
		newStatus = models.ApprovalRejected
	}

	res = s.db.Model(&models.ResponseApproval{}).
		Where("id = ? AND status = ?", token.ApprovalID, models.ApprovalPending).
		Updates(map[string]interface{}{"status": newStatus, "decided_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotPending
	}

	// Invalidate the sibling token; best-effort, the status guard above
	// already makes a late sibling redemption a no-op.
	s.db.Model(&models.ApprovalToken{}).
		Where("approval_id = ? AND id != ? AND used_at IS NULL", token.ApprovalID, token.ID).
		Update("used_at", now)

	var approval models.ResponseApproval
	if err := s.db.Preload("Feedback").First(&approval, token.ApprovalID).Error; err != nil {
		return nil, err
	}

	logger.Infof("[Approval] Approval %d %s via token redemption", approval.ID, newStatus)

	if newStatus == models.ApprovalApproved {
		s.sendApprovedResponse(&approval)
	}

	return &approval, nil
}

// sendApprovedResponse forwards the approved response to the guest, when a
// guest email is on file. Failures are logged, never propagated: the approval
// decision is already durable.
func (s *ApprovalService) sendApprovedResponse(approval *models.ResponseApproval) {
	if approval.Feedback == nil || approval.Feedback.GuestEmail == "" {
		logger.Infof("[Approval] Approval %d has no guest email, skipping send", approval.ID)
		return
	}

	fb := approval.Feedback
	subject := "A response to your recent feedback"
	html := fmt.Sprintf("<html><body><p>%s</p></body></html>", approval.ResponseText)

	_, err := s.email.Send(&SendRequest{
		TenantID:   approval.TenantID,
		FeedbackID: approval.FeedbackID,
		EmailType:  "guest_followup",
		Recipient:  fb.GuestEmail,
		Subject:    subject,
		HTML:       html,
	})
	if err != nil {
		logger.Warnf("[Approval] Failed to send approved response for approval %d: %v", approval.ID, err)
	}
}

// notifyApprover emails the tenant manager the approve/reject links.
func (s *ApprovalService) notifyApprover(approval *models.ResponseApproval, tokens []models.ApprovalToken) {
	var tenant models.Tenant
	if err := s.db.First(&tenant, approval.TenantID).Error; err != nil {
		logger.Warnf("[Approval] Tenant %d not found, approval email not sent", approval.TenantID)
		return
	}

	recipient := tenant.GeneralManagerEmail
	if recipient == "" {
		recipient = tenant.ContactEmail
	}
	if recipient == "" {
		logger.Infof("[Approval] Tenant %d has no approver email configured", tenant.ID)
		return
	}

	var approveURL, rejectURL string
	for _, tok := range tokens {
		url := fmt.Sprintf("%s/approval/redeem?token=%s&action=%s", s.cfg.App.PublicBaseURL, tok.Token, tok.Action)
		if tok.Action == models.TokenActionApprove {
			approveURL = url
		} else {
			rejectURL = url
		}
	}

	subject := fmt.Sprintf("[GuestGlow] Response approval needed — risk %s (%d/100)", approval.SeverityLevel, approval.RiskScore)
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Response requires your approval</h2>
<p>%s</p>
<h3>Proposed response</h3>
<div style="background: #f9f9f9; padding: 16px; border-radius: 4px; white-space: pre-wrap;">%s</div>
<p>
  <a href="%s" style="background:#2f855a;color:#fff;padding:10px 18px;border-radius:4px;text-decoration:none;">Approve</a>
  &nbsp;
  <a href="%s" style="background:#c53030;color:#fff;padding:10px 18px;border-radius:4px;text-decoration:none;">Reject</a>
</p>
<hr><p style="color: #888; font-size: 12px;">Powered by GuestGlow</p>
</body></html>`, approval.Explanation, approval.ResponseText, approveURL, rejectURL)

	if _, err := s.email.Send(&SendRequest{
		TenantID:   approval.TenantID,
		FeedbackID: approval.FeedbackID,
		EmailType:  "approval_request",
		Recipient:  recipient,
		Subject:    subject,
		HTML:       html,
	}); err != nil {
		logger.Warnf("[Approval] Failed to email approver for approval %d: %v", approval.ID, err)
	}
}

// GetByID loads an approval with its feedback.
func (s *ApprovalService) GetByID(id uint) (*models.ResponseApproval, error) {
	var approval models.ResponseApproval
	err := s.db.Preload("Feedback").First(&approval, id).Error
	return &approval, err
}

// ListPending returns pending approvals for a tenant, newest first.
func (s *ApprovalService) ListPending(tenantID uint) ([]models.ResponseApproval, error) {
	var approvals []models.ResponseApproval
	err := s.db.Where("tenant_id = ? AND status = ?", tenantID, models.ApprovalPending).
		Order("created_at DESC").
		Find(&approvals).Error
	return approvals, err
}
