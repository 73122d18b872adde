package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newEscalationTestService(t *testing.T) (*EscalationService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:escalation_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Feedback{},
		&models.EscalationRule{},
		&models.EscalationStats{},
		&models.CommunicationLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tenant := models.Tenant{
		Slug:                "seaview",
		Name:                "Seaview Hotel",
		GuestRelationsEmail: "gr@seaview.example",
		GeneralManagerEmail: "gm@seaview.example",
		IsActive:            true,
	}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	cfg := config.DefaultConfig()
	email := NewEmailService(db, &cfg.Email)
	return NewEscalationService(db, email), db
}

func createOverdueFeedback(t *testing.T, db *gorm.DB, hoursAgo float64) *models.Feedback {
	t.Helper()

	fb := models.Feedback{
		TenantID:  1,
		GuestName: "Ana",
		Rating:    1,
		Comment:   "Room was never cleaned",
		Category:  "general",
		Sentiment: "negative",
		Priority:  "high",
		Status:    models.StatusNew,
	}
	if err := db.Create(&fb).Error; err != nil {
		t.Fatalf("create feedback: %v", err)
	}

	createdAt := time.Now().Add(-durationHours(hoursAgo))
	if err := db.Model(&fb).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("backdate feedback: %v", err)
	}
	fb.CreatedAt = createdAt
	return &fb
}

func TestRunCheck_EscalatesToLevelOne(t *testing.T) {
	svc, db := newEscalationTestService(t)
	fb := createOverdueFeedback(t, db, 13) // default threshold is 12h

	actions, err := svc.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Level != 1 {
		t.Errorf("Level = %d, expected 1", actions[0].Level)
	}
	if actions[0].Recipient != "gr@seaview.example" {
		t.Errorf("Recipient = %q, expected guest relations address", actions[0].Recipient)
	}

	var reloaded models.Feedback
	db.First(&reloaded, fb.ID)
	if reloaded.EscalationLevel != 1 {
		t.Errorf("EscalationLevel = %d, expected 1", reloaded.EscalationLevel)
	}
	if reloaded.LastEscalatedAt == nil {
		t.Error("LastEscalatedAt should be set")
	}

	var statCount int64
	db.Model(&models.EscalationStats{}).Where("feedback_id = ?", fb.ID).Count(&statCount)
	if statCount != 1 {
		t.Errorf("expected 1 stats row, got %d", statCount)
	}
}

func TestRunCheck_ClockRestartsPerTier(t *testing.T) {
	svc, db := newEscalationTestService(t)
	fb := createOverdueFeedback(t, db, 13)

	if _, err := svc.RunCheck(context.Background()); err != nil {
		t.Fatalf("first RunCheck: %v", err)
	}

	// second run right away: the level-1 window has just restarted
	actions, err := svc.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("second RunCheck: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("expected no actions right after escalation, got %v", actions)
	}

	var reloaded models.Feedback
	db.First(&reloaded, fb.ID)
	if reloaded.EscalationLevel != 1 {
		t.Errorf("EscalationLevel = %d, expected to stay 1", reloaded.EscalationLevel)
	}
}

func TestRunCheck_EscalatesToGeneralManager(t *testing.T) {
	svc, db := newEscalationTestService(t)
	fb := createOverdueFeedback(t, db, 30)

	escalatedAt := time.Now().Add(-durationHours(13))
	db.Model(&models.Feedback{}).Where("id = ?", fb.ID).
		Updates(map[string]interface{}{"escalation_level": 1, "last_escalated_at": escalatedAt})

	actions, err := svc.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Level != 2 {
		t.Errorf("Level = %d, expected 2", actions[0].Level)
	}
	if actions[0].Recipient != "gm@seaview.example" {
		t.Errorf("Recipient = %q, expected general manager address", actions[0].Recipient)
	}
}

func TestRunCheck_AutoClosesPastFinalTier(t *testing.T) {
	svc, db := newEscalationTestService(t)
	fb := createOverdueFeedback(t, db, 48)

	escalatedAt := time.Now().Add(-durationHours(13))
	db.Model(&models.Feedback{}).Where("id = ?", fb.ID).
		Updates(map[string]interface{}{"escalation_level": 2, "last_escalated_at": escalatedAt})

	actions, err := svc.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if !actions[0].AutoClosed {
		t.Error("expected auto-close action")
	}

	var reloaded models.Feedback
	db.First(&reloaded, fb.ID)
	if reloaded.Status != models.StatusAutoClosed {
		t.Errorf("Status = %q, expected %q", reloaded.Status, models.StatusAutoClosed)
	}
	if reloaded.ResolvedAt == nil {
		t.Error("ResolvedAt should be set on auto-close")
	}
	if reloaded.ResolutionNote == "" {
		t.Error("ResolutionNote should record the auto-close reason")
	}
}

func TestRunCheck_SkipsFreshAndResolved(t *testing.T) {
	svc, db := newEscalationTestService(t)

	createOverdueFeedback(t, db, 2) // within the 12h window

	resolved := createOverdueFeedback(t, db, 48)
	now := time.Now()
	db.Model(&models.Feedback{}).Where("id = ?", resolved.ID).
		Updates(map[string]interface{}{"status": models.StatusResolved, "resolved_at": now})

	actions, err := svc.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("expected no actions, got %v", actions)
	}
}

func TestRunCheck_TenantRuleOverridesDefault(t *testing.T) {
	svc, db := newEscalationTestService(t)

	tenantID := uint(1)
	rule := models.EscalationRule{
		TenantID:       &tenantID,
		Category:       "maintenance",
		ThresholdHours: 2,
		IsActive:       true,
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}

	fb := createOverdueFeedback(t, db, 3)
	db.Model(&models.Feedback{}).Where("id = ?", fb.ID).Update("category", "maintenance")

	actions, err := svc.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected escalation under tenant rule, got %d actions", len(actions))
	}
}

func TestDurationHours(t *testing.T) {
	if durationHours(0.5) != 30*time.Minute {
		t.Errorf("durationHours(0.5) = %v", durationHours(0.5))
	}
	if durationHours(4) != 4*time.Hour {
		t.Errorf("durationHours(4) = %v", durationHours(4))
	}
}
