package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestSenderFor(t *testing.T) {
	cases := []struct {
		emailType string
		address   string
	}{
		{"guest_followup", "guest-relations@guestglow.com"},
		{"escalation_alert", "alerts@guestglow.com"},
		{"manager_alert", "alerts@guestglow.com"},
		{"approval_request", "approvals@guestglow.com"},
		{"daily_digest", "reports@guestglow.com"},
		{"something_else", "system@guestglow.com"},
		{"", "system@guestglow.com"},
	}

	for _, c := range cases {
		got := SenderFor(c.emailType)
		if got.Address != c.address {
			t.Errorf("SenderFor(%q).Address = %q, expected %q", c.emailType, got.Address, c.address)
		}
		if got.Name == "" {
			t.Errorf("SenderFor(%q) has empty display name", c.emailType)
		}
	}
}

func TestSend_RequiresRecipient(t *testing.T) {
	dsn := fmt.Sprintf("file:email_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.CommunicationLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.DefaultConfig()
	svc := NewEmailService(db, &cfg.Email)

	_, err = svc.Send(&SendRequest{
		TenantID:  1,
		EmailType: "guest_followup",
		Subject:   "hello",
		HTML:      "<p>hi</p>",
	})
	if err == nil {
		t.Fatal("Send without recipient should fail")
	}

	// a missing recipient is rejected before any transport or audit write
	var logCount int64
	db.Model(&models.CommunicationLog{}).Count(&logCount)
	if logCount != 0 {
		t.Errorf("expected no communication log rows, got %d", logCount)
	}
}
