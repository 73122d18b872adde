package models

import (
	"time"

	"gorm.io/gorm"
)

// Feedback represents a guest-submitted feedback record.
type Feedback struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	TenantID   uint    `gorm:"index;not null" json:"tenant_id"`
	Tenant     *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	GuestName  string  `gorm:"size:200" json:"guest_name"`
	GuestEmail string  `gorm:"size:255" json:"guest_email"`
	RoomNumber string  `gorm:"size:20" json:"room_number"`
	Rating     int     `gorm:"not null" json:"rating"` // 1-5
	Comment    string  `gorm:"type:text" json:"comment"`
	Category   string  `gorm:"size:100;index" json:"category"`

	// Derived at insert time from the rating, never recomputed.
	Sentiment string `gorm:"size:20" json:"sentiment"` // positive, neutral, negative
	Priority  string `gorm:"size:20" json:"priority"`  // high, normal, low

	Status          FeedbackStatus `gorm:"size:30;default:new;index" json:"status"`
	EscalationLevel int            `gorm:"default:0" json:"escalation_level"`
	LastEscalatedAt *time.Time     `json:"last_escalated_at"`
	AcknowledgedAt  *time.Time     `json:"acknowledged_at"`
	ResolvedAt      *time.Time     `json:"resolved_at"`
	ResolutionNote  string         `gorm:"type:text" json:"resolution_note"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Feedback) TableName() string { return "feedbacks" }

// SentimentForRating derives the sentiment tag stored at insert time.
func SentimentForRating(rating int) string {
	switch {
	case rating >= 4:
		return "positive"
	case rating == 3:
		return "neutral"
	default:
		return "negative"
	}
}

// PriorityForRating derives the triage priority stored at insert time.
func PriorityForRating(rating int) string {
	switch {
	case rating <= 2:
		return "high"
	case rating == 3:
		return "normal"
	default:
		return "low"
	}
}
