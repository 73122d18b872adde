package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
	"gorm.io/gorm"
)

// Escalation levels. Level 1 notifies guest relations, level 2 the general
// manager; past the final level the record auto-closes.
const (
	levelGuestRelations = 1
	levelGeneralManager = 2
	maxEscalationLevel  = 2

	defaultThresholdHours = 12
	escalationBatchSize   = 100
)

// EscalationAction describes one transition taken during a check run.
type EscalationAction struct {
	FeedbackID uint   `json:"feedback_id"`
	Level      int    `json:"level"` // 0 means auto-closed
	Recipient  string `json:"recipient,omitempty"`
	AutoClosed bool   `json:"auto_closed"`
}

// EscalationService advances overdue feedback through the notification tiers.
// It is driven by an external poller or the internal cron entry; both paths
// call RunCheck, which is idempotent per level.
type EscalationService struct {
	db            *gorm.DB
	email         *EmailService
	cronScheduler *cron.Cron
}

func NewEscalationService(db *gorm.DB, email *EmailService) *EscalationService {
	return &EscalationService{db: db, email: email}
}

// StartScheduler runs the overdue check on the configured interval spec,
// e.g. "@every 1m". Empty spec disables the internal poller.
func (s *EscalationService) StartScheduler(pollInterval string) {
	if pollInterval == "" {
		logger.Infof("[Escalation] Internal poller disabled")
		return
	}

	s.cronScheduler = cron.New()
	_, err := s.cronScheduler.AddFunc(pollInterval, func() {
		actions, err := s.RunCheck(context.Background())
		if err != nil {
			logger.Warnf("[Escalation] Check failed: %v", err)
			return
		}
		if len(actions) > 0 {
			logger.Infof("[Escalation] Check took %d actions", len(actions))
		}
	})
	if err != nil {
		logger.Errorf("[Escalation] Failed to add cron job: %v", err)
		return
	}

	s.cronScheduler.Start()
	logger.Infof("[Escalation] Poller scheduled (%s)", pollInterval)
}

func (s *EscalationService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// RunCheck scans unresolved feedback and advances each overdue row by at most
// one level. Returns the actions taken.
func (s *EscalationService) RunCheck(ctx context.Context) ([]EscalationAction, error) {
	var open []models.Feedback
	err := s.db.WithContext(ctx).
		Where("status IN ?", []models.FeedbackStatus{models.StatusNew, models.StatusAcknowledged, models.StatusInProgress}).
		Order("created_at ASC").
		Limit(escalationBatchSize).
		Find(&open).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open feedback: %w", err)
	}

	var actions []EscalationAction
	now := time.Now()

	for i := range open {
		fb := &open[i]

		threshold := s.thresholdFor(fb.TenantID, fb.Category)

		// Clock restarts at the last escalation, so each tier gets the
		// full threshold window.
		since := fb.CreatedAt
		if fb.LastEscalatedAt != nil {
			since = *fb.LastEscalatedAt
		}
		elapsed := now.Sub(since)
		if elapsed < durationHours(threshold) {
			continue
		}

		action, err := s.advance(fb, elapsed, now)
		if err != nil {
			logger.Warnf("[Escalation] Failed to advance feedback %d: %v", fb.ID, err)
			continue
		}
		if action != nil {
			actions = append(actions, *action)
		}
	}

	if len(actions) > 0 {
		logger.Infof("[Escalation] Check complete: %d action(s) taken", len(actions))
	}
	return actions, nil
}

// advance moves one feedback up a level, or auto-closes it past the final
// level. The optimistic escalation_level guard makes overlapping poll
// invocations safe: only one caller can win the UPDATE for a given level.
func (s *EscalationService) advance(fb *models.Feedback, elapsed time.Duration, now time.Time) (*EscalationAction, error) {
	if fb.EscalationLevel >= maxEscalationLevel {
		return s.autoClose(fb, elapsed, now)
	}

	nextLevel := fb.EscalationLevel + 1

	res := s.db.Model(&models.Feedback{}).
		Where("id = ? AND escalation_level = ?", fb.ID, fb.EscalationLevel).
		Updates(map[string]interface{}{
			"escalation_level":  nextLevel,
			"last_escalated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to a concurrent check run; that run sent the email.
		return nil, nil
	}

	recipient := s.recipientFor(fb.TenantID, nextLevel)
	if recipient != "" {
		s.notify(fb, nextLevel, recipient, elapsed)
	} else {
		logger.Warnf("[Escalation] No level-%d recipient configured for tenant %d", nextLevel, fb.TenantID)
	}

	s.recordStats(fb, nextLevel, recipient, elapsed, false)

	logger.Infof("[Escalation] Feedback %d escalated to level %d (elapsed %.1fh)",
		fb.ID, nextLevel, elapsed.Hours())

	return &EscalationAction{FeedbackID: fb.ID, Level: nextLevel, Recipient: recipient}, nil
}

// autoClose closes a feedback that outlived the final escalation tier.
func (s *EscalationService) autoClose(fb *models.Feedback, elapsed time.Duration, now time.Time) (*EscalationAction, error) {
	next, err := models.Transition(fb.Status, models.EventAutoClose)
	if err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Auto-closed after exhausting escalation tiers (%.1fh without resolution)", elapsed.Hours())

	res := s.db.Model(&models.Feedback{}).
		Where("id = ? AND status = ? AND resolved_at IS NULL", fb.ID, fb.Status).
		Updates(map[string]interface{}{
			"status":          next,
			"resolved_at":     now,
			"resolution_note": note,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	s.recordStats(fb, 0, "", elapsed, true)

	logger.Infof("[Escalation] Feedback %d auto-closed", fb.ID)
	return &EscalationAction{FeedbackID: fb.ID, Level: 0, AutoClosed: true}, nil
}

// thresholdFor resolves the SLA threshold in fractional hours: tenant rule
// first, then the platform default rule, then the built-in default.
func (s *EscalationService) thresholdFor(tenantID uint, category string) float64 {
	var rule models.EscalationRule
	err := s.db.
		Where("tenant_id = ? AND category = ? AND is_active = ?", tenantID, category, true).
		First(&rule).Error
	if err == nil {
		return rule.ThresholdHours
	}

	err = s.db.
		Where("tenant_id IS NULL AND category = ? AND is_active = ?", category, true).
		First(&rule).Error
	if err == nil {
		return rule.ThresholdHours
	}

	return defaultThresholdHours
}

// recipientFor resolves the notification address for an escalation level.
func (s *EscalationService) recipientFor(tenantID uint, level int) string {
	var tenant models.Tenant
	if err := s.db.First(&tenant, tenantID).Error; err != nil {
		return ""
	}

	switch level {
	case levelGuestRelations:
		if tenant.GuestRelationsEmail != "" {
			return tenant.GuestRelationsEmail
		}
		return tenant.ContactEmail
	case levelGeneralManager:
		if tenant.GeneralManagerEmail != "" {
			return tenant.GeneralManagerEmail
		}
		return tenant.ContactEmail
	}
	return ""
}

// notify emails the escalation alert. Failure is logged and swallowed: the
// level transition is already durable and will not be re-sent.
func (s *EscalationService) notify(fb *models.Feedback, level int, recipient string, elapsed time.Duration) {
	tier := "Guest Relations"
	if level == levelGeneralManager {
		tier = "General Manager"
	}

	subject := fmt.Sprintf("[GuestGlow] SLA breach — feedback #%d unresolved for %.1fh", fb.ID, elapsed.Hours())
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Feedback escalated to %s</h2>
<table style="border-collapse: collapse;">
<tr><td style="padding:6px;border:1px solid #ddd;font-weight:bold;">Guest</td><td style="padding:6px;border:1px solid #ddd;">%s (room %s)</td></tr>
<tr><td style="padding:6px;border:1px solid #ddd;font-weight:bold;">Rating</td><td style="padding:6px;border:1px solid #ddd;">%d / 5</td></tr>
<tr><td style="padding:6px;border:1px solid #ddd;font-weight:bold;">Category</td><td style="padding:6px;border:1px solid #ddd;">%s</td></tr>
<tr><td style="padding:6px;border:1px solid #ddd;font-weight:bold;">Waiting</td><td style="padding:6px;border:1px solid #ddd;">%.1f hours</td></tr>
</table>
<h3>Feedback</h3>
<div style="background:#f9f9f9;padding:16px;border-radius:4px;white-space:pre-wrap;">%s</div>
<hr><p style="color:#888;font-size:12px;">Powered by GuestGlow</p>
</body></html>`, tier, fb.GuestName, fb.RoomNumber, fb.Rating, fb.Category, elapsed.Hours(), fb.Comment)

	_, err := s.email.Send(&SendRequest{
		TenantID:   fb.TenantID,
		FeedbackID: &fb.ID,
		EmailType:  "escalation_alert",
		Recipient:  recipient,
		Subject:    subject,
		HTML:       html,
	})
	if err != nil {
		logger.Warnf("[Escalation] Failed to notify %s for feedback %d: %v", recipient, fb.ID, err)
	}
}

// recordStats appends the reporting row. Best-effort.
func (s *EscalationService) recordStats(fb *models.Feedback, level int, recipient string, elapsed time.Duration, autoClosed bool) {
	stat := models.EscalationStats{
		TenantID:     fb.TenantID,
		FeedbackID:   fb.ID,
		Level:        level,
		Recipient:    recipient,
		Category:     fb.Category,
		ElapsedHours: elapsed.Hours(),
		Acknowledged: fb.AcknowledgedAt != nil,
		AutoClosed:   autoClosed,
	}
	if err := s.db.Create(&stat).Error; err != nil {
		logger.Warnf("[Escalation] Failed to record stats for feedback %d: %v", fb.ID, err)
	}
}

// durationHours converts fractional hours to a duration.
func durationHours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
