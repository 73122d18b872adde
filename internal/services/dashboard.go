package services

import (
	"time"

	"github.com/onebase1/guestglow-backend/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type DashboardStats struct {
	TotalFeedback   int64   `json:"total_feedback"`
	OpenFeedback    int64   `json:"open_feedback"`
	ResolvedCount   int64   `json:"resolved_count"`
	AutoClosedCount int64   `json:"auto_closed_count"`
	AverageRating   float64 `json:"average_rating"`
	EscalatedCount  int64   `json:"escalated_count"`
	ExternalReviews int64   `json:"external_reviews"`
}

type StatusBreakdown struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CategoryStats struct {
	Category     string  `json:"category"`
	Count        int64   `json:"count"`
	AvgRating    float64 `json:"avg_rating"`
	HighPriority int64   `json:"high_priority"`
}

type ResponseTimeStats struct {
	AvgAckHours     float64 `json:"avg_ack_hours"`
	AvgResolveHours float64 `json:"avg_resolve_hours"`
}

type DashboardResponse struct {
	Stats         DashboardStats    `json:"stats"`
	ByStatus      []StatusBreakdown `json:"by_status"`
	ByCategory    []CategoryStats   `json:"by_category"`
	ResponseTimes ResponseTimeStats `json:"response_times"`
}

func (s *DashboardService) GetStats(tenantID uint, req *DashboardStatsRequest) (*DashboardResponse, error) {
	var startDate, endDate time.Time
	var err error

	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			startDate = time.Now().AddDate(0, 0, -30)
		}
	} else {
		startDate = time.Now().AddDate(0, 0, -30)
	}

	if req.EndDate != "" {
		endDate, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			endDate = time.Now()
		}
		endDate = endDate.Add(24*time.Hour - time.Second)
	} else {
		endDate = time.Now()
	}

	base := s.db.Model(&models.Feedback{}).
		Where("tenant_id = ? AND created_at BETWEEN ? AND ?", tenantID, startDate, endDate)

	var stats DashboardStats

	base.Session(&gorm.Session{}).Count(&stats.TotalFeedback)

	base.Session(&gorm.Session{}).
		Where("status IN ?", []models.FeedbackStatus{models.StatusNew, models.StatusAcknowledged, models.StatusInProgress}).
		Count(&stats.OpenFeedback)

	base.Session(&gorm.Session{}).Where("status = ?", models.StatusResolved).Count(&stats.ResolvedCount)
	base.Session(&gorm.Session{}).Where("status = ?", models.StatusAutoClosed).Count(&stats.AutoClosedCount)
	base.Session(&gorm.Session{}).Where("escalation_level > 0").Count(&stats.EscalatedCount)

	base.Session(&gorm.Session{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&stats.AverageRating)

	s.db.Model(&models.ExternalReview{}).
		Where("tenant_id = ? AND created_at BETWEEN ? AND ?", tenantID, startDate, endDate).
		Count(&stats.ExternalReviews)

	var byStatus []StatusBreakdown
	s.db.Model(&models.Feedback{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND created_at BETWEEN ? AND ?", tenantID, startDate, endDate).
		Group("status").
		Scan(&byStatus)

	var byCategory []CategoryStats
	s.db.Model(&models.Feedback{}).
		Select("category, COUNT(*) as count, COALESCE(AVG(rating), 0) as avg_rating, SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END) as high_priority").
		Where("tenant_id = ? AND created_at BETWEEN ? AND ?", tenantID, startDate, endDate).
		Group("category").
		Order("count DESC").
		Limit(10).
		Scan(&byCategory)

	// JULIANDAY arithmetic is sqlite-specific (the default driver); on other
	// drivers the query errors are ignored and the fields stay zero.
	var times ResponseTimeStats
	s.db.Model(&models.Feedback{}).
		Select("COALESCE(AVG((JULIANDAY(acknowledged_at) - JULIANDAY(created_at)) * 24), 0)").
		Where("tenant_id = ? AND acknowledged_at IS NOT NULL AND created_at BETWEEN ? AND ?", tenantID, startDate, endDate).
		Scan(&times.AvgAckHours)
	s.db.Model(&models.Feedback{}).
		Select("COALESCE(AVG((JULIANDAY(resolved_at) - JULIANDAY(created_at)) * 24), 0)").
		Where("tenant_id = ? AND resolved_at IS NOT NULL AND created_at BETWEEN ? AND ?", tenantID, startDate, endDate).
		Scan(&times.AvgResolveHours)

	return &DashboardResponse{
		Stats:         stats,
		ByStatus:      byStatus,
		ByCategory:    byCategory,
		ResponseTimes: times,
	}, nil
}

// PendingEscalations counts open feedback rows already escalated at least once.
// Exposed on the health endpoint.
func (s *DashboardService) PendingEscalations() int64 {
	var count int64
	s.db.Model(&models.Feedback{}).
		Where("escalation_level > 0 AND status IN ?",
			[]models.FeedbackStatus{models.StatusNew, models.StatusAcknowledged, models.StatusInProgress}).
		Count(&count)
	return count
}
