package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/onebase1/guestglow-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newFeedbackTestService(t *testing.T) (*FeedbackService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:feedback_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Tenant{}, &models.Feedback{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tenant := models.Tenant{Slug: "seaview", Name: "Seaview Hotel", IsActive: true}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	return NewFeedbackService(db), db
}

func TestSubmit_DerivesFields(t *testing.T) {
	svc, _ := newFeedbackTestService(t)

	fb, err := svc.Submit(&SubmitRequest{
		TenantSlug: "seaview",
		GuestName:  "Ana",
		Rating:     1,
		Comment:    "Never again",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if fb.Sentiment != "negative" {
		t.Errorf("Sentiment = %q, expected negative", fb.Sentiment)
	}
	if fb.Priority != "high" {
		t.Errorf("Priority = %q, expected high", fb.Priority)
	}
	if fb.Status != models.StatusNew {
		t.Errorf("Status = %q, expected new", fb.Status)
	}
	if fb.Category != "general" {
		t.Errorf("Category = %q, expected fallback to general", fb.Category)
	}
}

func TestSubmit_UnknownTenant(t *testing.T) {
	svc, _ := newFeedbackTestService(t)

	if _, err := svc.Submit(&SubmitRequest{TenantSlug: "nope", Rating: 5}); err == nil {
		t.Fatal("Submit with unknown tenant should fail")
	}
}

func TestLifecycle_FullPath(t *testing.T) {
	svc, _ := newFeedbackTestService(t)

	fb, err := svc.Submit(&SubmitRequest{TenantSlug: "seaview", Rating: 2, Comment: "cold shower"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	fb, err = svc.Acknowledge(fb.ID)
	if err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if fb.Status != models.StatusAcknowledged {
		t.Errorf("Status = %q, expected acknowledged", fb.Status)
	}
	if fb.AcknowledgedAt == nil {
		t.Error("AcknowledgedAt should be stamped")
	}

	fb, err = svc.StartProgress(fb.ID)
	if err != nil {
		t.Fatalf("StartProgress: %v", err)
	}
	if fb.Status != models.StatusInProgress {
		t.Errorf("Status = %q, expected in_progress", fb.Status)
	}

	fb, err = svc.Resolve(fb.ID, "Plumber replaced the valve")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if fb.Status != models.StatusResolved {
		t.Errorf("Status = %q, expected resolved", fb.Status)
	}
	if fb.ResolvedAt == nil {
		t.Error("ResolvedAt should be stamped")
	}
	if fb.ResolutionNote != "Plumber replaced the valve" {
		t.Errorf("ResolutionNote = %q", fb.ResolutionNote)
	}
}

func TestLifecycle_IllegalTransitions(t *testing.T) {
	svc, _ := newFeedbackTestService(t)

	fb, err := svc.Submit(&SubmitRequest{TenantSlug: "seaview", Rating: 3})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// cannot start progress before acknowledging
	if _, err := svc.StartProgress(fb.ID); err == nil {
		t.Error("StartProgress on new feedback should fail")
	}

	if _, err := svc.Resolve(fb.ID, "done"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// resolved is terminal
	if _, err := svc.Resolve(fb.ID, "again"); err == nil {
		t.Error("Resolve on resolved feedback should fail")
	}
	if _, err := svc.Acknowledge(fb.ID); err == nil {
		t.Error("Acknowledge on resolved feedback should fail")
	}
}

func TestResolve_SetsResolvedAtOnce(t *testing.T) {
	svc, db := newFeedbackTestService(t)

	fb, err := svc.Submit(&SubmitRequest{TenantSlug: "seaview", Rating: 3})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	resolved, err := svc.Resolve(fb.ID, "first")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	firstStamp := *resolved.ResolvedAt

	if _, err := svc.Resolve(fb.ID, "second"); err == nil {
		t.Fatal("second Resolve should fail")
	}

	var reloaded models.Feedback
	db.First(&reloaded, fb.ID)
	if !reloaded.ResolvedAt.Equal(firstStamp) {
		t.Errorf("ResolvedAt changed from %v to %v", firstStamp, *reloaded.ResolvedAt)
	}
	if reloaded.ResolutionNote != "first" {
		t.Errorf("ResolutionNote = %q, expected the first note to stand", reloaded.ResolutionNote)
	}
}

func TestList_Filters(t *testing.T) {
	svc, _ := newFeedbackTestService(t)

	for _, rating := range []int{1, 3, 5} {
		if _, err := svc.Submit(&SubmitRequest{TenantSlug: "seaview", Rating: rating}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	resp, err := svc.List(&ListRequest{Priority: "high"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("Total = %d, expected 1 high-priority row", resp.Total)
	}

	resp, err = svc.List(&ListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("Total = %d, expected 3", resp.Total)
	}
	if resp.Page != 1 || resp.PageSize != 20 {
		t.Errorf("paging defaults = %d/%d, expected 1/20", resp.Page, resp.PageSize)
	}
}
