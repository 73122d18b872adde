package models

import (
	"time"

	"gorm.io/gorm"
)

// ExternalReview is a review ingested from an external platform
// (Google, TripAdvisor, Booking.com). Rows are immutable once inserted
// except for response linkage.
type ExternalReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   uint      `gorm:"index;not null" json:"tenant_id"`
	Tenant     *Tenant   `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Platform   string    `gorm:"size:50;not null;uniqueIndex:idx_platform_external" json:"platform"`
	ExternalID string    `gorm:"size:200;not null;uniqueIndex:idx_platform_external" json:"external_id"`
	Author     string    `gorm:"size:200" json:"author"`
	Rating     int       `json:"rating"`
	Text       string    `gorm:"type:text" json:"text"`
	Sentiment  string    `gorm:"size:20" json:"sentiment"` // derived from rating at insert
	ReviewedAt time.Time `json:"reviewed_at"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (ExternalReview) TableName() string { return "external_reviews" }

// ReviewResponse is a generated or hand-edited reply to an external review.
// A review may accumulate many versions; the latest approved one is active.
type ReviewResponse struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ReviewID  uint            `gorm:"index;not null" json:"review_id"`
	Review    *ExternalReview `gorm:"foreignKey:ReviewID" json:"review,omitempty"`
	TenantID  uint            `gorm:"index;not null" json:"tenant_id"`
	Body      string          `gorm:"type:text;not null" json:"body"`
	Source    string          `gorm:"size:20;default:template" json:"source"` // template, ai, manual
	Status    string          `gorm:"size:20;default:draft;index" json:"status"` // draft, approved, rejected
	Version   int             `gorm:"default:1" json:"version"`
	Priority  string          `gorm:"size:20;default:normal" json:"priority"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (ReviewResponse) TableName() string { return "review_responses" }
