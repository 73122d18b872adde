package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/onebase1/guestglow-backend/internal/config"
	"github.com/onebase1/guestglow-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newApprovalTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:approval_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Feedback{},
		&models.ResponseApproval{},
		&models.ApprovalToken{},
		&models.CommunicationLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func newApprovalTestService(t *testing.T) (*ApprovalService, *gorm.DB) {
	t.Helper()

	db := newApprovalTestDB(t)
	cfg := config.DefaultConfig()
	email := NewEmailService(db, &cfg.Email)
	return NewApprovalService(db, email, cfg), db
}

func openTestApproval(t *testing.T, svc *ApprovalService, db *gorm.DB, feedbackID *uint) *models.ResponseApproval {
	t.Helper()

	approval := &models.ResponseApproval{
		TenantID:      1,
		FeedbackID:    feedbackID,
		ResponseText:  "We are sorry to hear about your experience.",
		RiskScore:     35,
		SeverityLevel: SeverityHigh,
		Status:        models.ApprovalPending,
	}
	if err := svc.Open(approval); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return approval
}

func tokenFor(t *testing.T, db *gorm.DB, approvalID uint, action string) *models.ApprovalToken {
	t.Helper()

	var token models.ApprovalToken
	if err := db.Where("approval_id = ? AND action = ?", approvalID, action).First(&token).Error; err != nil {
		t.Fatalf("load %s token: %v", action, err)
	}
	return &token
}

func TestOpen_IssuesTokenPair(t *testing.T) {
	svc, db := newApprovalTestService(t)

	approval := openTestApproval(t, svc, db, nil)

	var tokens []models.ApprovalToken
	if err := db.Where("approval_id = ?", approval.ID).Find(&tokens).Error; err != nil {
		t.Fatalf("load tokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}

	actions := map[string]bool{}
	for _, tok := range tokens {
		actions[tok.Action] = true
		if tok.UsedAt != nil {
			t.Errorf("fresh token %s already marked used", tok.Action)
		}
		if !tok.ExpiresAt.After(time.Now()) {
			t.Errorf("token %s expires in the past: %v", tok.Action, tok.ExpiresAt)
		}
	}
	if !actions[models.TokenActionApprove] || !actions[models.TokenActionReject] {
		t.Errorf("expected one approve and one reject token, got %v", actions)
	}
}

func TestOpen_ReusesOutstandingApproval(t *testing.T) {
	svc, db := newApprovalTestService(t)

	feedback := models.Feedback{TenantID: 1, Rating: 1, Status: models.StatusNew}
	if err := db.Create(&feedback).Error; err != nil {
		t.Fatalf("create feedback: %v", err)
	}

	first := openTestApproval(t, svc, db, &feedback.ID)
	second := openTestApproval(t, svc, db, &feedback.ID)

	if second.ID != first.ID {
		t.Errorf("expected reuse of approval %d, got new approval %d", first.ID, second.ID)
	}

	var tokenCount int64
	db.Model(&models.ApprovalToken{}).Count(&tokenCount)
	if tokenCount != 2 {
		t.Errorf("reuse should not mint new tokens, found %d", tokenCount)
	}
}

func TestRedeem_Approve(t *testing.T) {
	svc, db := newApprovalTestService(t)

	approval := openTestApproval(t, svc, db, nil)
	token := tokenFor(t, db, approval.ID, models.TokenActionApprove)

	result, err := svc.Redeem(token.Token, models.TokenActionApprove)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if result.Status != models.ApprovalApproved {
		t.Errorf("Status = %q, expected %q", result.Status, models.ApprovalApproved)
	}
	if result.DecidedAt == nil {
		t.Error("DecidedAt should be set on redemption")
	}

	// the sibling reject token must be invalidated
	sibling := tokenFor(t, db, approval.ID, models.TokenActionReject)
	if sibling.UsedAt == nil {
		t.Error("sibling token should be invalidated after redemption")
	}
}

func TestRedeem_Reject(t *testing.T) {
	svc, db := newApprovalTestService(t)

	approval := openTestApproval(t, svc, db, nil)
	token := tokenFor(t, db, approval.ID, models.TokenActionReject)

	result, err := svc.Redeem(token.Token, models.TokenActionReject)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if result.Status != models.ApprovalRejected {
		t.Errorf("Status = %q, expected %q", result.Status, models.ApprovalRejected)
	}
}

func TestRedeem_SecondUseFails(t *testing.T) {
	svc, db := newApprovalTestService(t)

	approval := openTestApproval(t, svc, db, nil)
	token := tokenFor(t, db, approval.ID, models.TokenActionApprove)

	if _, err := svc.Redeem(token.Token, models.TokenActionApprove); err != nil {
		t.Fatalf("first Redeem: %v", err)
	}

	_, err := svc.Redeem(token.Token, models.TokenActionApprove)
	if !errors.Is(err, ErrTokenConsumed) {
		t.Errorf("second Redeem error = %v, expected ErrTokenConsumed", err)
	}
}

func TestRedeem_SiblingAfterDecisionFails(t *testing.T) {
	svc, db := newApprovalTestService(t)

	approval := openTestApproval(t, svc, db, nil)
	approve := tokenFor(t, db, approval.ID, models.TokenActionApprove)
	reject := tokenFor(t, db, approval.ID, models.TokenActionReject)

	if _, err := svc.Redeem(approve.Token, models.TokenActionApprove); err != nil {
		t.Fatalf("Redeem approve: %v", err)
	}

	_, err := svc.Redeem(reject.Token, models.TokenActionReject)
	if !errors.Is(err, ErrTokenConsumed) {
		t.Errorf("sibling Redeem error = %v, expected ErrTokenConsumed", err)
	}

	// the decision made by the winner must stand
	var final models.ResponseApproval
	if err := db.First(&final, approval.ID).Error; err != nil {
		t.Fatalf("reload approval: %v", err)
	}
	if final.Status != models.ApprovalApproved {
		t.Errorf("Status = %q, expected winner's %q", final.Status, models.ApprovalApproved)
	}
}

func TestRedeem_ExpiredToken(t *testing.T) {
	svc, db := newApprovalTestService(t)

	approval := openTestApproval(t, svc, db, nil)
	token := tokenFor(t, db, approval.ID, models.TokenActionApprove)

	expired := time.Now().Add(-time.Hour)
	if err := db.Model(token).Update("expires_at", expired).Error; err != nil {
		t.Fatalf("expire token: %v", err)
	}

	_, err := svc.Redeem(token.Token, models.TokenActionApprove)
	if !errors.Is(err, ErrTokenConsumed) {
		t.Errorf("expired Redeem error = %v, expected ErrTokenConsumed", err)
	}

	// expiry must leave the approval untouched
	var final models.ResponseApproval
	db.First(&final, approval.ID)
	if final.Status != models.ApprovalPending {
		t.Errorf("Status = %q, expected still pending", final.Status)
	}
}

func TestRedeem_WrongActionForToken(t *testing.T) {
	svc, db := newApprovalTestService(t)

	approval := openTestApproval(t, svc, db, nil)
	token := tokenFor(t, db, approval.ID, models.TokenActionApprove)

	_, err := svc.Redeem(token.Token, models.TokenActionReject)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Redeem error = %v, expected ErrTokenNotFound", err)
	}
}

func TestRedeem_UnknownToken(t *testing.T) {
	svc, _ := newApprovalTestService(t)

	_, err := svc.Redeem("not-a-token", models.TokenActionApprove)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Redeem error = %v, expected ErrTokenNotFound", err)
	}
}
