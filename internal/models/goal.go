package models

import "time"

// RatingGoal is a tenant's target external platform rating.
type RatingGoal struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TenantID      uint       `gorm:"uniqueIndex:idx_goal_tenant_platform;not null" json:"tenant_id"`
	Platform      string     `gorm:"size:50;uniqueIndex:idx_goal_tenant_platform;not null" json:"platform"`
	CurrentRating float64    `json:"current_rating"`
	TargetRating  float64    `gorm:"not null" json:"target_rating"`
	Deadline      *time.Time `json:"deadline"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (RatingGoal) TableName() string { return "rating_goals" }

// DailyRatingProgress is an aggregate row upserted once per tenant per day.
type DailyRatingProgress struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TenantID      uint      `gorm:"uniqueIndex:idx_progress_tenant_date;not null" json:"tenant_id"`
	Date          string    `gorm:"size:10;uniqueIndex:idx_progress_tenant_date;not null" json:"date"` // YYYY-MM-DD
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	FeedbackCount int       `json:"feedback_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (DailyRatingProgress) TableName() string { return "daily_rating_progress" }
