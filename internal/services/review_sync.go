package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onebase1/guestglow-backend/internal/models"
	"github.com/onebase1/guestglow-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReviewSyncService ingests external platform reviews and manages the
// response drafts attached to them. Ingestion is insert-only: a review
// already present for (platform, external_id) is never modified.
type ReviewSyncService struct {
	db      *gorm.DB
	scraper *ScraperClient
}

func NewReviewSyncService(db *gorm.DB, scraper *ScraperClient) *ReviewSyncService {
	return &ReviewSyncService{db: db, scraper: scraper}
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Platform string `json:"platform"`
	Fetched  int    `json:"fetched"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

// SyncTenant pulls reviews for one tenant/platform listing through the
// scraping API and stores the ones not seen before.
func (s *ReviewSyncService) SyncTenant(ctx context.Context, tenantID uint, platform, listingID string) (*SyncResult, error) {
	reviews, err := s.scraper.FetchReviews(ctx, platform, listingID)
	if err != nil {
		return nil, fmt.Errorf("fetch %s reviews: %w", platform, err)
	}
	return s.ingest(tenantID, platform, reviews)
}

// SyncPage pulls reviews by fetching and parsing a listing page directly.
func (s *ReviewSyncService) SyncPage(ctx context.Context, tenantID uint, platform, pageURL string) (*SyncResult, error) {
	reviews, err := s.scraper.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s page: %w", platform, err)
	}
	return s.ingest(tenantID, platform, reviews)
}

func (s *ReviewSyncService) ingest(tenantID uint, platform string, reviews []ScrapedReview) (*SyncResult, error) {
	result := &SyncResult{Platform: platform, Fetched: len(reviews)}

	for _, r := range reviews {
		if r.ExternalID == "" {
			result.Skipped++
			continue
		}

		var count int64
		s.db.Model(&models.ExternalReview{}).
			Where("platform = ? AND external_id = ?", platform, r.ExternalID).
			Count(&count)
		if count > 0 {
			result.Skipped++
			continue
		}

		row := models.ExternalReview{
			TenantID:   tenantID,
			Platform:   platform,
			ExternalID: r.ExternalID,
			Author:     r.Author,
			Rating:     r.Rating,
			Text:       r.Text,
			Sentiment:  models.SentimentForRating(r.Rating),
			ReviewedAt: r.ReviewedAt,
		}
		if err := s.db.Create(&row).Error; err != nil {
			// unique index races with a concurrent sync are expected
			logger.Warnf("[ReviewSync] insert %s/%s failed: %v", platform, r.ExternalID, err)
			result.Skipped++
			continue
		}
		result.Inserted++
	}

	logger.Infof("[ReviewSync] tenant %d platform %s: %d fetched, %d inserted, %d skipped",
		tenantID, platform, result.Fetched, result.Inserted, result.Skipped)
	return result, nil
}

// ReviewListRequest filters the external review listing.
type ReviewListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Platform  string `form:"platform"`
	Sentiment string `form:"sentiment"`
	MaxRating int    `form:"max_rating"`
}

type ReviewListResponse struct {
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
	Items    []models.ExternalReview `json:"items"`
}

func (s *ReviewSyncService) List(tenantID uint, req *ReviewListRequest) (*ReviewListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.ExternalReview{}).Where("tenant_id = ?", tenantID)
	if req.Platform != "" {
		query = query.Where("platform = ?", req.Platform)
	}
	if req.Sentiment != "" {
		query = query.Where("sentiment = ?", req.Sentiment)
	}
	if req.MaxRating > 0 {
		query = query.Where("rating <= ?", req.MaxRating)
	}

	var total int64
	query.Count(&total)

	var items []models.ExternalReview
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("reviewed_at DESC").Offset(offset).Limit(req.PageSize).Find(&items).Error; err != nil {
		return nil, err
	}

	return &ReviewListResponse{Total: total, Page: req.Page, PageSize: req.PageSize, Items: items}, nil
}

func (s *ReviewSyncService) GetReview(id uint) (*models.ExternalReview, error) {
	var review models.ExternalReview
	if err := s.db.Preload("Tenant").First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// CreateDraft stores a new response version for a review. Versions count up
// from 1 per review.
func (s *ReviewSyncService) CreateDraft(reviewID uint, body, source, priority string) (*models.ReviewResponse, error) {
	var review models.ExternalReview
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, fmt.Errorf("review not found: %w", err)
	}

	var maxVersion int
	s.db.Model(&models.ReviewResponse{}).
		Where("review_id = ?", reviewID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion)

	if priority == "" {
		priority = "normal"
	}
	draft := models.ReviewResponse{
		ReviewID: reviewID,
		TenantID: review.TenantID,
		Body:     body,
		Source:   source,
		Status:   "draft",
		Version:  maxVersion + 1,
		Priority: priority,
	}
	if err := s.db.Create(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

var ErrResponseNotDraft = errors.New("response is not in draft state")

// SetDraftStatus moves a draft to approved or rejected. Only drafts move.
func (s *ReviewSyncService) SetDraftStatus(responseID uint, status string) (*models.ReviewResponse, error) {
	if status != "approved" && status != "rejected" {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	result := s.db.Model(&models.ReviewResponse{}).
		Where("id = ? AND status = ?", responseID, "draft").
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrResponseNotDraft
	}

	var resp models.ReviewResponse
	if err := s.db.First(&resp, responseID).Error; err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListResponses returns all response versions for a review, newest first.
func (s *ReviewSyncService) ListResponses(reviewID uint) ([]models.ReviewResponse, error) {
	var responses []models.ReviewResponse
	if err := s.db.Where("review_id = ?", reviewID).Order("version DESC").Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}
