package services

import (
	"fmt"
	"time"

	"github.com/onebase1/guestglow-backend/internal/models"
	"gorm.io/gorm"
)

// GoalService manages rating goals and the daily progress aggregates that
// track movement toward them.
type GoalService struct {
	db *gorm.DB
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

// SetGoalRequest creates or replaces the goal for (tenant, platform).
type SetGoalRequest struct {
	Platform     string  `json:"platform" binding:"required"`
	TargetRating float64 `json:"target_rating" binding:"required,min=1,max=5"`
	Deadline     string  `json:"deadline"` // YYYY-MM-DD, optional
}

func (s *GoalService) SetGoal(tenantID uint, req *SetGoalRequest) (*models.RatingGoal, error) {
	var deadline *time.Time
	if req.Deadline != "" {
		t, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline: %w", err)
		}
		deadline = &t
	}

	var goal models.RatingGoal
	err := s.db.Where("tenant_id = ? AND platform = ?", tenantID, req.Platform).First(&goal).Error
	if err == gorm.ErrRecordNotFound {
		goal = models.RatingGoal{
			TenantID:     tenantID,
			Platform:     req.Platform,
			TargetRating: req.TargetRating,
			Deadline:     deadline,
		}
		goal.CurrentRating = s.currentRating(tenantID, req.Platform)
		if err := s.db.Create(&goal).Error; err != nil {
			return nil, err
		}
		return &goal, nil
	}
	if err != nil {
		return nil, err
	}

	goal.TargetRating = req.TargetRating
	goal.Deadline = deadline
	goal.CurrentRating = s.currentRating(tenantID, req.Platform)
	if err := s.db.Save(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalService) ListGoals(tenantID uint) ([]models.RatingGoal, error) {
	var goals []models.RatingGoal
	if err := s.db.Where("tenant_id = ?", tenantID).Order("platform ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// currentRating is the running average of ingested reviews for a platform.
func (s *GoalService) currentRating(tenantID uint, platform string) float64 {
	var avg float64
	s.db.Model(&models.ExternalReview{}).
		Where("tenant_id = ? AND platform = ? AND rating > 0", tenantID, platform).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg)
	return avg
}

// RecordDailyProgress upserts the aggregate row for one tenant and day.
// Re-running for the same day overwrites the previous aggregates.
func (s *GoalService) RecordDailyProgress(tenantID uint, day time.Time) (*models.DailyRatingProgress, error) {
	date := day.Format("2006-01-02")
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var reviewCount int64
	var avgRating float64
	s.db.Model(&models.ExternalReview{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, dayStart, dayEnd).
		Count(&reviewCount)
	s.db.Model(&models.ExternalReview{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ? AND rating > 0", tenantID, dayStart, dayEnd).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)

	var feedbackCount int64
	s.db.Model(&models.Feedback{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, dayStart, dayEnd).
		Count(&feedbackCount)

	var row models.DailyRatingProgress
	err := s.db.Where("tenant_id = ? AND date = ?", tenantID, date).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		row = models.DailyRatingProgress{
			TenantID:      tenantID,
			Date:          date,
			AverageRating: avgRating,
			ReviewCount:   int(reviewCount),
			FeedbackCount: int(feedbackCount),
		}
		if err := s.db.Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}

	row.AverageRating = avgRating
	row.ReviewCount = int(reviewCount)
	row.FeedbackCount = int(feedbackCount)
	if err := s.db.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ProgressHistory returns up to days rows of daily progress, newest first.
func (s *GoalService) ProgressHistory(tenantID uint, days int) ([]models.DailyRatingProgress, error) {
	if days <= 0 {
		days = 30
	}
	var rows []models.DailyRatingProgress
	if err := s.db.Where("tenant_id = ?", tenantID).
		Order("date DESC").Limit(days).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
