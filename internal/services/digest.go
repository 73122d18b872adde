package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DigestService sends the daily summary email to each tenant's managers
// and rolls the daily rating progress aggregates.
type DigestService struct {
	db            *gorm.DB
	cfg           *config.DigestConfig
	email         *EmailService
	goals         *GoalService
	holidays      *HolidayService
	cronScheduler *cron.Cron
}

func NewDigestService(db *gorm.DB, cfg *config.DigestConfig, email *EmailService, goals *GoalService, holidays *HolidayService) *DigestService {
	return &DigestService{
		db:       db,
		cfg:      cfg,
		email:    email,
		goals:    goals,
		holidays: holidays,
	}
}

func (s *DigestService) StartScheduler() {
	if !s.cfg.Enabled {
		logger.Infof("[Digest] Scheduler disabled")
		return
	}

	s.cronScheduler = cron.New()

	parts := strings.Split(s.cfg.Time, ":")
	hour, minute := "8", "0"
	if len(parts) == 2 {
		hour = parts[0]
		minute = parts[1]
	}
	cronExpr := fmt.Sprintf("%s %s * * *", minute, hour)

	_, err := s.cronScheduler.AddFunc(cronExpr, func() {
		s.RunDigest(time.Now())
	})
	if err != nil {
		logger.Errorf("[Digest] Failed to add cron job: %v", err)
		return
	}

	s.cronScheduler.Start()
	logger.Infof("[Digest] Scheduled at %s (cron: %s)", s.cfg.Time, cronExpr)
}

func (s *DigestService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// RunDigest processes every active tenant for the day preceding now.
// Sends are best-effort per tenant; one tenant failing does not stop the run.
func (s *DigestService) RunDigest(now time.Time) {
	if s.cfg.WorkdayOnly && !s.holidays.IsWorkday(now, s.cfg.CountryCode) {
		logger.Infof("[Digest] Skipping: %s is not a workday in %s", now.Format("2006-01-02"), s.cfg.CountryCode)
		return
	}

	var tenants []models.Tenant
	if err := s.db.Where("is_active = ?", true).Find(&tenants).Error; err != nil {
		logger.Errorf("[Digest] Failed to load tenants: %v", err)
		return
	}

	yesterday := now.AddDate(0, 0, -1)
	for _, tenant := range tenants {
		if err := s.digestTenant(&tenant, yesterday); err != nil {
			logger.Warnf("[Digest] Tenant %s failed: %v", tenant.Slug, err)
		}
	}
}

func (s *DigestService) digestTenant(tenant *models.Tenant, day time.Time) error {
	progress, err := s.goals.RecordDailyProgress(tenant.ID, day)
	if err != nil {
		return fmt.Errorf("record progress: %w", err)
	}

	summary := s.collectSummary(tenant.ID, day)
	goals, _ := s.goals.ListGoals(tenant.ID)

	recipient := tenant.GeneralManagerEmail
	if recipient == "" {
		recipient = tenant.ContactEmail
	}
	if recipient == "" {
		logger.Infof("[Digest] Tenant %s has no digest recipient, skipping send", tenant.Slug)
		return nil
	}

	subject := fmt.Sprintf("%s — daily guest feedback digest for %s", tenant.Name, day.Format("Jan 2, 2006"))
	html := s.renderDigest(tenant, day, summary, progress, goals)

	_, err = s.email.Send(&SendRequest{
		TenantID:  tenant.ID,
		EmailType: "daily_digest",
		Recipient: recipient,
		Subject:   subject,
		HTML:      html,
	})
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

type digestSummary struct {
	FeedbackCount   int64
	AverageRating   float64
	NegativeCount   int64
	OpenEscalations int64
	AutoClosed      int64
}

func (s *DigestService) collectSummary(tenantID uint, day time.Time) digestSummary {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var sum digestSummary

	s.db.Model(&models.Feedback{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, dayStart, dayEnd).
		Count(&sum.FeedbackCount)

	s.db.Model(&models.Feedback{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, dayStart, dayEnd).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&sum.AverageRating)

	s.db.Model(&models.Feedback{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ? AND sentiment = ?", tenantID, dayStart, dayEnd, "negative").
		Count(&sum.NegativeCount)

	s.db.Model(&models.Feedback{}).
		Where("tenant_id = ? AND escalation_level > 0 AND status IN ?", tenantID,
			[]models.FeedbackStatus{models.StatusNew, models.StatusAcknowledged, models.StatusInProgress}).
		Count(&sum.OpenEscalations)

	s.db.Model(&models.Feedback{}).
		Where("tenant_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?", tenantID, models.StatusAutoClosed, dayStart, dayEnd).
		Count(&sum.AutoClosed)

	return sum
}

func (s *DigestService) renderDigest(tenant *models.Tenant, day time.Time, sum digestSummary, progress *models.DailyRatingProgress, goals []models.RatingGoal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>%s — Daily Digest, %s</h2>", tenant.Name, day.Format("Monday, Jan 2 2006"))
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>New feedback: <strong>%d</strong> (avg rating %.1f)</li>", sum.FeedbackCount, sum.AverageRating)
	fmt.Fprintf(&b, "<li>Negative feedback: <strong>%d</strong></li>", sum.NegativeCount)
	fmt.Fprintf(&b, "<li>Open escalations: <strong>%d</strong></li>", sum.OpenEscalations)
	if sum.AutoClosed > 0 {
		fmt.Fprintf(&b, "<li>Auto-closed without resolution: <strong>%d</strong></li>", sum.AutoClosed)
	}
	fmt.Fprintf(&b, "<li>External reviews ingested: <strong>%d</strong> (avg %.1f)</li>", progress.ReviewCount, progress.AverageRating)
	b.WriteString("</ul>")

	if len(goals) > 0 {
		b.WriteString("<h3>Rating goals</h3><ul>")
		for _, g := range goals {
			line := fmt.Sprintf("<li>%s: %.2f / target %.2f", g.Platform, g.CurrentRating, g.TargetRating)
			if g.Deadline != nil {
				line += fmt.Sprintf(" (by %s)", g.Deadline.Format("Jan 2, 2006"))
			}
			b.WriteString(line + "</li>")
		}
		b.WriteString("</ul>")
	}

	return b.String()
}
