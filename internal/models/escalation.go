package models

import "time"

// EscalationRule configures the SLA threshold for one feedback category.
// Thresholds are fractional hours so test tenants can use minute-scale SLAs.
// A nil TenantID makes the rule a platform-wide default.
type EscalationRule struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TenantID       *uint     `gorm:"index" json:"tenant_id"`
	Category       string    `gorm:"size:100;not null;index" json:"category"`
	ThresholdHours float64   `gorm:"not null" json:"threshold_hours"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (EscalationRule) TableName() string { return "escalation_rules" }

// EscalationStats records one escalation transition for reporting: which
// level fired, who was notified, and whether the feedback had already been
// acknowledged when the threshold elapsed.
type EscalationStats struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TenantID     uint      `gorm:"index" json:"tenant_id"`
	FeedbackID   uint      `gorm:"index;not null" json:"feedback_id"`
	Feedback     *Feedback `gorm:"foreignKey:FeedbackID" json:"feedback,omitempty"`
	Level        int       `gorm:"not null" json:"level"` // 1, 2; 0 rows record auto-close
	Recipient    string    `gorm:"size:255" json:"recipient"`
	Category     string    `gorm:"size:100" json:"category"`
	ElapsedHours float64   `json:"elapsed_hours"`
	Acknowledged bool      `gorm:"default:false" json:"acknowledged"`
	AutoClosed   bool      `gorm:"default:false" json:"auto_closed"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (EscalationStats) TableName() string { return "escalation_stats" }
