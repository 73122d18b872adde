package services

import (
	"fmt"
	"time"

	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
	"gorm.io/gorm"
)

// FeedbackService manages the guest feedback lifecycle. All status changes go
// through the models.Transition state machine.
type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// SubmitRequest is the public guest submission payload.
type SubmitRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	RoomNumber string `json:"room_number"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
	Category   string `json:"category"`
}

// Submit records a guest submission. Sentiment and priority are derived from
// the rating here and never recomputed afterwards.
func (s *FeedbackService) Submit(req *SubmitRequest) (*models.Feedback, error) {
	var tenant models.Tenant
	if err := s.db.Where("slug = ? AND is_active = ?", req.TenantSlug, true).First(&tenant).Error; err != nil {
		return nil, fmt.Errorf("unknown tenant %q", req.TenantSlug)
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	fb := &models.Feedback{
		TenantID:   tenant.ID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		RoomNumber: req.RoomNumber,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Category:   category,
		Sentiment:  models.SentimentForRating(req.Rating),
		Priority:   models.PriorityForRating(req.Rating),
		Status:     models.StatusNew,
	}

	if err := s.db.Create(fb).Error; err != nil {
		return nil, err
	}

	logger.Infof("[Feedback] New feedback %d for tenant %s (rating=%d, priority=%s)",
		fb.ID, tenant.Slug, fb.Rating, fb.Priority)
	return fb, nil
}

// Acknowledge moves a feedback to acknowledged and stamps AcknowledgedAt.
func (s *FeedbackService) Acknowledge(id uint) (*models.Feedback, error) {
	return s.apply(id, models.EventAcknowledge, func(fb *models.Feedback, now time.Time) map[string]interface{} {
		return map[string]interface{}{"acknowledged_at": now}
	})
}

// StartProgress moves an acknowledged feedback to in_progress.
func (s *FeedbackService) StartProgress(id uint) (*models.Feedback, error) {
	return s.apply(id, models.EventStartProgress, nil)
}

// Resolve closes a feedback with a resolution note. ResolvedAt is set at most
// once; resolving a terminal feedback fails in Transition.
func (s *FeedbackService) Resolve(id uint, note string) (*models.Feedback, error) {
	return s.apply(id, models.EventResolve, func(fb *models.Feedback, now time.Time) map[string]interface{} {
		return map[string]interface{}{"resolved_at": now, "resolution_note": note}
	})
}

// apply loads the feedback, runs the state machine, and persists the result
// guarded by the previous status so concurrent writers cannot both win.
func (s *FeedbackService) apply(id uint, ev models.FeedbackEvent, extra func(*models.Feedback, time.Time) map[string]interface{}) (*models.Feedback, error) {
	var fb models.Feedback
	if err := s.db.First(&fb, id).Error; err != nil {
		return nil, err
	}

	next, err := models.Transition(fb.Status, ev)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"status": next}
	if extra != nil {
		for k, v := range extra(&fb, now) {
			updates[k] = v
		}
	}

	res := s.db.Model(&models.Feedback{}).
		Where("id = ? AND status = ?", fb.ID, fb.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("feedback %d was modified concurrently", fb.ID)
	}

	if err := s.db.First(&fb, id).Error; err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListRequest filters the staff feedback listing.
type ListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	TenantID uint   `form:"tenant_id"`
	Status   string `form:"status"`
	Category string `form:"category"`
	Priority string `form:"priority"`
}

// ListResponse is a paginated feedback listing.
type ListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.Feedback `json:"items"`
}

func (s *FeedbackService) List(req *ListRequest) (*ListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Feedback{})
	if req.TenantID != 0 {
		query = query.Where("tenant_id = ?", req.TenantID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Priority != "" {
		query = query.Where("priority = ?", req.Priority)
	}

	var total int64
	query.Count(&total)

	var items []models.Feedback
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &ListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: items}, nil
}

// GetByID loads one feedback with its tenant.
func (s *FeedbackService) GetByID(id uint) (*models.Feedback, error) {
	var fb models.Feedback
	err := s.db.Preload("Tenant").First(&fb, id).Error
	return &fb, err
}
